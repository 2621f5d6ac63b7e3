package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"frontdesk-backend/controllers"
	"frontdesk-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Controllers bundles everything SetupRouter wires up.
type Controllers struct {
	Auth     *controllers.AuthController
	Admin    *controllers.AdminController
	Booking  *controllers.BookingController
	Room     *controllers.RoomController
	Expense  *controllers.ExpenseController
	Invoice  *controllers.InvoiceController
	Settings *controllers.SettingsController
	Stats    *controllers.StatsController
}

func SetupRouter(ctrl Controllers, jwtSecret []byte, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(jwtSecret))
	{
		bookings := protected.Group("/bookings")
		{
			bookings.GET("", ctrl.Booking.GetBookings)
			bookings.POST("", ctrl.Booking.CreateBooking)
			bookings.POST("/walk-in", ctrl.Booking.CreateWalkIn)
			bookings.GET("/:id", ctrl.Booking.GetBooking)
			bookings.PUT("/:id", ctrl.Booking.UpdateBooking)
			bookings.POST("/:id/checkin", ctrl.Booking.CheckIn)
			bookings.POST("/:id/checkout", ctrl.Booking.CheckOut)
			bookings.POST("/:id/cancel", ctrl.Booking.Cancel)
		}

		rooms := protected.Group("/rooms")
		{
			// /available must be registered before /:number
			rooms.GET("/available", ctrl.Room.GetAvailableRooms)
			rooms.GET("", ctrl.Room.GetRooms)
			rooms.GET("/:number", ctrl.Room.GetRoom)
			rooms.POST("", ctrl.Room.CreateRoom)
			rooms.PATCH("/:number", ctrl.Room.UpdateRoom)
			rooms.PUT("/:number", ctrl.Room.UpdateRoom)
			rooms.DELETE("/:number", ctrl.Room.DeleteRoom)
		}

		roomTypes := protected.Group("/room-types")
		{
			roomTypes.GET("", ctrl.Room.GetRoomTypes)
			roomTypes.POST("", ctrl.Room.CreateRoomType)
		}

		expenses := protected.Group("/expenses")
		{
			expenses.GET("", ctrl.Expense.GetExpenses)
			expenses.POST("", ctrl.Expense.CreateExpense)
			expenses.POST("/:id/approve", ctrl.Expense.ApproveExpense)
			expenses.POST("/:id/reject", ctrl.Expense.RejectExpense)
			expenses.POST("/:id/pay", ctrl.Expense.PayExpense)
		}

		invoices := protected.Group("/invoices")
		{
			invoices.GET("", ctrl.Invoice.GetInvoices)
			invoices.POST("", ctrl.Invoice.CreateInvoice)
			invoices.GET("/:number", ctrl.Invoice.GetInvoice)
			invoices.GET("/:number/pdf", ctrl.Invoice.InvoicePDF)
			invoices.POST("/:number/pay", ctrl.Invoice.PayInvoice)
			invoices.POST("/:number/refund", ctrl.Invoice.RefundInvoice)
		}

		protected.GET("/stats", ctrl.Stats.GetStats)

		settings := protected.Group("/settings")
		{
			settings.GET("/hotel", ctrl.Settings.GetHotelSettings)
			settings.PUT("/hotel", ctrl.Settings.UpdateHotelSettings)
		}

		admins := protected.Group("/admins")
		{
			admins.GET("", ctrl.Admin.GetAdmins)
			admins.POST("", ctrl.Admin.CreateAdmin)
			admins.DELETE("/:id", ctrl.Admin.DeleteAdmin)
		}
	}

	return r
}
