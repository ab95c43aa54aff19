package config

import (
	"Receipt-Radar-Backend/internal/api/handlers"
	"Receipt-Radar-Backend/internal/api/routes"
	"Receipt-Radar-Backend/internal/middleware"
	"Receipt-Radar-Backend/internal/utils"
	"Receipt-Radar-Backend/internal/utils/mailing"
	"Receipt-Radar-Backend/internal/utils/storage"
	"Receipt-Radar-Backend/pkg/extraction"
	"Receipt-Radar-Backend/pkg/jwt"
	"Receipt-Radar-Backend/pkg/receipt"
	"Receipt-Radar-Backend/pkg/workflow"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         12 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewMailer()

	agent, err := extraction.NewExtractionAgent()
	if err != nil {
		return nil, err
	}

	// Repository
	receiptRepository := receipt.NewReceiptRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	workflowService := workflow.NewWorkflowService(receiptRepository, s3, agent, mailer)
	receiptService := receipt.NewReceiptService(receiptRepository, s3, workflowService)

	// Handler
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		ReceiptHandler: receiptHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
