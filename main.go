package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/xn-coder/EstateFlow-sub000/config"
	"github.com/xn-coder/EstateFlow-sub000/controllers"
	"github.com/xn-coder/EstateFlow-sub000/middleware"
	"github.com/xn-coder/EstateFlow-sub000/realtime"
	"github.com/xn-coder/EstateFlow-sub000/repositories"
	"github.com/xn-coder/EstateFlow-sub000/routes"
	"github.com/xn-coder/EstateFlow-sub000/services"
)

// CustomValidator adapts go-playground/validator to Echo.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config.ConnectRedis()

	client := config.ConnectDB()
	db := client.Database(config.DBName())

	hub := realtime.NewHub()
	go hub.Run()

	go middleware.CleanupBlacklist()

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	rateLimiter := middleware.NewRateLimiter()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "EstateFlow backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	userRepo := repositories.NewUserRepository(db)
	settlementRepo := repositories.NewSettlementRepository(client, db)
	settlement := services.NewSettlement(settlementRepo)

	routes.RegisterRoutes(e, routes.Controllers{
		Auth:     controllers.NewAuthController(db, userRepo),
		Catalog:  controllers.NewCatalogController(db),
		Enquiry:  controllers.NewEnquiryController(db, hub),
		Order:    controllers.NewOrderController(settlement, db, hub),
		Wallet:   controllers.NewWalletController(db),
		Customer: controllers.NewCustomerController(db),
		Partner:  controllers.NewPartnerController(db, userRepo),
		Support:  controllers.NewSupportController(db, hub),
		Hub:      hub,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
