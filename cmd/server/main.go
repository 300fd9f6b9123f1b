package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"anopog_wbs/internal/config"
	"anopog_wbs/internal/controllers"
	"anopog_wbs/internal/imagestore"
	"anopog_wbs/internal/logger"
	"anopog_wbs/internal/middleware"
	"anopog_wbs/internal/realtime"
	"anopog_wbs/internal/routes"
	"anopog_wbs/internal/service"
	"anopog_wbs/internal/sms"
	"anopog_wbs/internal/storage"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database and migrate the schema
	config.InitDB()
	store := storage.NewGormStore(config.DB)

	// Meter photo uploads go to R2
	uploader, err := imagestore.NewR2ClientFromEnv(context.Background())
	if err != nil {
		log.Fatalf("image store init failed: %v", err)
	}

	// Realtime hub for the admin dashboard feed
	hub := realtime.NewHub()
	defer hub.Close()

	billing := service.NewBilling(store, uploader, hub)
	smsClient := sms.NewClient(os.Getenv("SEMAPHORE_API_KEY"), os.Getenv("SEMAPHORE_URL"))

	r := routes.SetupRouter(routes.Controllers{
		Users:   controllers.NewUserController(store),
		Billing: controllers.NewBillingController(billing),
		SMS:     controllers.NewSMSController(smsClient),
		WS:      controllers.NewWSController(hub),
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	port := config.GetEnv("PORT", "4000")
	log.Printf("🚀 Server running at :%s", port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+port, handler))
}
