// routes/routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/xn-coder/EstateFlow-sub000/controllers"
	"github.com/xn-coder/EstateFlow-sub000/middleware"
	"github.com/xn-coder/EstateFlow-sub000/models"
	"github.com/xn-coder/EstateFlow-sub000/realtime"
)

// Controllers bundles everything the router needs.
type Controllers struct {
	Auth     *controllers.AuthController
	Catalog  *controllers.CatalogController
	Enquiry  *controllers.EnquiryController
	Order    *controllers.OrderController
	Wallet   *controllers.WalletController
	Customer *controllers.CustomerController
	Partner  *controllers.PartnerController
	Support  *controllers.SupportController
	Hub      *realtime.Hub
}

// RegisterRoutes wires every endpoint onto the Echo instance.
func RegisterRoutes(e *echo.Echo, ctrl Controllers) {
	api := e.Group("/api")

	// Public endpoints.
	auth := api.Group("/auth")
	auth.POST("/signup", ctrl.Auth.Signup)
	auth.POST("/login", ctrl.Auth.Login)

	// Lead intake is public so partner-hosted forms can post directly.
	api.POST("/enquiries", ctrl.Enquiry.SubmitEnquiry)

	// Everything below requires a valid token.
	protected := api.Group("", middleware.JWTMiddleware())

	protected.POST("/auth/logout", ctrl.Auth.Logout)
	protected.GET("/auth/validate", ctrl.Auth.ValidateToken)

	// Catalogs: everyone reads, admins write.
	protected.GET("/catalogs", ctrl.Catalog.GetCatalogs)
	protected.GET("/catalogs/:id", ctrl.Catalog.GetCatalog)
	adminCatalogs := protected.Group("/catalogs", middleware.RequireRole(models.RoleAdmin))
	adminCatalogs.POST("", ctrl.Catalog.CreateCatalog)
	adminCatalogs.PUT("/:id", ctrl.Catalog.UpdateCatalog)
	adminCatalogs.DELETE("/:id", ctrl.Catalog.DeleteCatalog)

	// Enquiries: listing is role-scoped inside the handler.
	protected.GET("/enquiries", ctrl.Enquiry.GetEnquiries)
	protected.GET("/enquiries/:id", ctrl.Enquiry.GetEnquiry)
	protected.PUT("/enquiries/:id/status", ctrl.Enquiry.UpdateEnquiryStatus,
		middleware.RequireRole(models.RoleAdmin, models.RoleSeller))

	// Order confirmation triggers settlement.
	protected.POST("/orders/confirm-enquiry", ctrl.Order.ConfirmEnquiry,
		middleware.RequireRole(models.RoleAdmin, models.RoleSeller))

	// Wallet and ledgers.
	protected.GET("/wallet", ctrl.Wallet.GetSummary,
		middleware.RequireRole(models.RoleAdmin))
	protected.POST("/wallet/topup", ctrl.Wallet.TopUp,
		middleware.RequireRole(models.RoleAdmin))
	protected.GET("/wallet/payables", ctrl.Wallet.ListPayables)
	protected.PUT("/wallet/payables/:id/pay", ctrl.Wallet.MarkPayablePaid,
		middleware.RequireRole(models.RoleAdmin))
	protected.GET("/wallet/receivables", ctrl.Wallet.ListReceivables)
	protected.PUT("/wallet/receivables/:id/receive", ctrl.Wallet.MarkReceivableReceived,
		middleware.RequireRole(models.RoleAdmin))

	// Customers come from settlement; read only.
	protected.GET("/customers", ctrl.Customer.GetCustomers)
	protected.GET("/customers/:id", ctrl.Customer.GetCustomer)

	// Partner self-service and admin management.
	protected.GET("/partners/profile", ctrl.Partner.GetProfile)
	protected.PUT("/partners/profile", ctrl.Partner.UpdateProfile)
	adminPartners := protected.Group("/partners", middleware.RequireRole(models.RoleAdmin))
	adminPartners.GET("", ctrl.Partner.ListPartners)
	adminPartners.PUT("/:id/activate", ctrl.Partner.ActivatePartner)
	adminPartners.PUT("/:id/category", ctrl.Partner.SetCategory)

	// Support tickets.
	protected.POST("/support/tickets", ctrl.Support.CreateTicket)
	protected.GET("/support/tickets", ctrl.Support.ListTickets)
	protected.POST("/support/tickets/:id/messages", ctrl.Support.AddMessage)
	protected.PUT("/support/tickets/:id/close", ctrl.Support.CloseTicket,
		middleware.RequireRole(models.RoleAdmin))

	// Live event feed for the back-office UI.
	protected.GET("/ws", func(c echo.Context) error {
		return realtime.HandleWebSocket(c, ctrl.Hub)
	})
}
