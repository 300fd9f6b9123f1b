package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"anopog_wbs/internal/middleware"
	"anopog_wbs/internal/models"
	"anopog_wbs/internal/storage"
)

// UserController serves the account management and login endpoints.
type UserController struct {
	store storage.Store
}

func NewUserController(store storage.Store) *UserController {
	return &UserController{store: store}
}

type createUserInput struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	RoleID   uint    `json:"role_id" binding:"required"`
	Purok    *string `json:"purok"`
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var input createUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields: username, password, role_id"})
		return
	}

	// Reject duplicates up front for a clean message; the unique index still
	// backstops concurrent creates.
	if _, err := uc.store.GetUserByUsername(c.Request.Context(), input.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Username already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	role, err := uc.store.GetRoleByID(c.Request.Context(), input.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "role_id does not exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Username: input.Username,
		Password: string(hashed),
		RoleID:   input.RoleID,
		Purok:    input.Purok,
	}
	if err := uc.store.CreateUser(c.Request.Context(), &user); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"message": "Username already exists"})
			return
		}
		logrus.WithError(err).Error("Create user failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	user.Role = *role // for the response only; the FK is what persists
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": publicUser(&user)})
}

func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.store.ListUsers(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("List users failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list users"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, publicUser(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := uc.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	c.JSON(http.StatusOK, publicUser(user))
}

type updateUserInput struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	RoleID   *uint   `json:"role_id"`
	Purok    *string `json:"purok"`
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Username != nil {
		updates["username"] = *input.Username
	}
	if input.RoleID != nil {
		updates["role_id"] = *input.RoleID
	}
	if input.Purok != nil {
		updates["purok"] = *input.Purok
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}
		updates["password"] = string(hashed)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No fields to update"})
		return
	}

	user, err := uc.store.UpdateUser(c.Request.Context(), id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"message": "Username already exists"})
			return
		}
		logrus.WithError(err).Error("Update user failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": publicUser(user)})
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := uc.store.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			logrus.WithError(err).Error("Delete user failed.")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}

func (uc *UserController) Login(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	user, err := uc.store.GetUserByUsername(c.Request.Context(), body.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, user.Role.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role.Name,
			"purok":    user.Purok,
		},
	})
}

// publicUser strips the password hash and flattens the role name.
func publicUser(user *models.User) gin.H {
	out := gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role_id":  user.RoleID,
		"purok":    user.Purok,
	}
	if user.Role.Name != "" {
		out["role"] = gin.H{"name": user.Role.Name}
	}
	return out
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id parameter"})
		return 0, false
	}
	return uint(id), true
}
