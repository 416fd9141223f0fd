package routes

import (
	"time"

	"reminderx/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterReminderRoutes registers reminder and dispenser reminder endpoints.
func RegisterReminderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reminder")
	{
		// Dispenser endpoints authenticate by paired model, not by token.
		api.GET("/esp32/:model", hb.Reminder.DeviceRemindersHandler)
		api.POST("/esp32/status", hb.Reminder.DeviceStatusHandler)

		protected := api.Group("")
		protected.Use(hb.Auth)
		protected.POST("/createreminder", hb.Reminder.CreateReminderHandler)
		protected.GET("", hb.Reminder.GetRemindersHandler)
		protected.PATCH("/:id", hb.Reminder.UpdateHistoryHandler)
		protected.GET("/:id/history", hb.Reminder.GetHistoryHandler)
		protected.DELETE("/:id", hb.Reminder.DeleteReminderHandler)
	}
}

// RegisterInventoryRoutes registers inventory endpoints.
func RegisterInventoryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/inventory")
	{
		api.POST("/esp32/:model/compartment-stock", hb.Inventory.CompartmentStockHandler)

		protected := api.Group("")
		protected.Use(hb.Auth)
		protected.POST("", hb.Inventory.CreateInventoryHandler)
		protected.GET("", hb.Inventory.GetInventoryHandler)
		protected.PATCH("/:id", hb.Inventory.UpdateInventoryHandler)
		protected.DELETE("/:id", hb.Inventory.DeleteInventoryHandler)
	}
}

// RegisterContactRoutes registers emergency contact endpoints.
func RegisterContactRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/contact")
	{
		api.Use(hb.Auth)
		api.POST("", hb.Contact.CreateContactHandler)
		api.GET("", hb.Contact.GetContactsHandler)
		api.PATCH("/:id", hb.Contact.UpdateContactHandler)
		api.DELETE("/:id", hb.Contact.DeleteContactHandler)
	}
}

// RegisterUserRoutes registers user and dispenser pairing endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/user")
	{
		api.POST("/register", hb.RegistrationAuth, hb.User.RegisterUserHandler)

		protected := api.Group("")
		protected.Use(hb.Auth)
		protected.GET("", hb.User.GetProfileHandler)
		protected.PATCH("", hb.User.UpdateProfileHandler)
		protected.POST("/push-token", hb.User.UpdatePushTokenHandler)
	}

	model := r.Group("/api/model")
	{
		model.Use(hb.Auth)
		model.POST("", hb.User.PairDeviceHandler)
		model.GET("", hb.User.GetDeviceHandler)
	}
}

// RegisterRecordRoutes registers the dose log endpoints.
func RegisterRecordRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notification")
	{
		api.Use(hb.Auth)
		api.POST("/register", hb.Records.RegisterRecordHandler)
		api.GET("", hb.Records.ListRecordsHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterReminderRoutes(r, hb)
	RegisterInventoryRoutes(r, hb)
	RegisterContactRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterRecordRoutes(r, hb)
	RegisterHealthRoute(r)
}
