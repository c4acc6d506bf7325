package routes

import (
	"github.com/jchou1989/XuanteaPOS-sub001/controllers"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/middlewares"
	"github.com/jchou1989/XuanteaPOS-sub001/services"
	"github.com/jchou1989/XuanteaPOS-sub001/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP layer talks to. Built once in main.
type Deps struct {
	JWTSecret string

	Bus         *events.Bus
	Queue       *services.OrderQueue
	Coordinator *services.StatusCoordinator
	Kitchen     *services.KitchenBoard
	Gateway     *services.TransactionGateway
	Analytics   *services.SalesAnalytics
	Generator   *services.SampleGenerator
	Devices     *services.DeviceService
	Auth        *services.AuthService
	Printer     *services.PrintTracker
	Hub         *ws.EventHub
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.CORSMiddleware(), middlewares.PrometheusMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authCtrl := controllers.NewAuthController(d.Auth)
	orderCtrl := controllers.NewOrderController(d.Queue, d.Bus)
	sessionCtrl := controllers.NewSessionController(d.Coordinator)
	kitchenCtrl := controllers.NewKitchenController(d.Kitchen, d.Bus)
	txCtrl := controllers.NewTransactionController(d.Gateway, d.Bus, d.Analytics)
	demoCtrl := controllers.NewDemoController(d.Generator)
	deviceCtrl := controllers.NewDeviceController(d.Devices)
	printCtrl := controllers.NewPrintController(d.Queue, d.Printer)

	auth := middlewares.AuthMiddleware(d.JWTSecret)
	managers := middlewares.AuthMiddleware(d.JWTSecret, "manager", "admin")

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/login", authCtrl.Login)
		a.GET("/me", auth, authCtrl.Me)
	}

	// Order queue + status dialog
	o := r.Group("/orders", auth)
	{
		o.GET("", orderCtrl.List)
		o.POST("", orderCtrl.Create)
		o.DELETE("", orderCtrl.Clear)
		o.PATCH("/:id/status", orderCtrl.UpdateStatus)
		o.GET("/:id/qr/:itemId", orderCtrl.LabelPayload)

		o.POST("/:id/session", sessionCtrl.Open)
		o.GET("/:id/session", sessionCtrl.Get)
		o.DELETE("/:id/session", sessionCtrl.Close)
		o.PATCH("/:id/session/status", sessionCtrl.Transition)
		o.POST("/:id/session/messages", sessionCtrl.PostMessage)
	}

	// Kitchen display
	k := r.Group("/kitchen", auth)
	{
		k.GET("/orders", kitchenCtrl.List)
		k.PATCH("/orders/:id/items/:itemId", kitchenCtrl.UpdateItem)
		k.DELETE("/orders", kitchenCtrl.Clear)
	}

	// Transactions
	t := r.Group("/transactions", auth)
	{
		t.GET("", txCtrl.List)
		t.POST("", txCtrl.Create)
		t.GET("/export", txCtrl.Export)
		t.POST("/sync", txCtrl.Sync)
		t.PATCH("/:id/void", managers, txCtrl.Void)
		t.PATCH("/:id/refund", managers, txCtrl.Refund)
	}
	r.GET("/analytics/summary", auth, txCtrl.Summary)

	r.POST("/demo/generate", auth, demoCtrl.Generate)

	// Devices
	dev := r.Group("/devices", auth)
	{
		dev.GET("", deviceCtrl.List)
		dev.POST("", managers, deviceCtrl.Register)
		dev.POST("/:id/heartbeat", deviceCtrl.Heartbeat)
	}

	// Printing
	p := r.Group("/print", auth)
	{
		p.POST("/labels", printCtrl.PrintLabel)
		p.GET("/status", printCtrl.Status)
	}

	r.GET("/ws/events", middlewares.WSAuthMiddleware(d.JWTSecret), d.Hub.HandleWebSocket)
}
