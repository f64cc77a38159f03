package handlers

import (
	"restaurant_backend/internal/auth"
	"restaurant_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig holds everything the HTTP surface depends on.
type RouterConfig struct {
	Logger       *zap.Logger
	Tokens       *auth.TokenManager
	CORSOrigin   string
	ExposeErrors bool

	Health    *HealthHandler
	Customers *CustomerHandler
	Orders    *OrderHandler
	Payments  *PaymentHandler
	Staff     *StaffHandler
	Schedules *ScheduleHandler
	Recipes   *RecipeHandler
	Inventory *InventoryHandler
	Sales     *SalesHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Observability(cfg.Logger),
		middleware.Recovery(),
		exposeErrors(cfg.ExposeErrors),
	)

	router.GET("/health", cfg.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", middleware.CORS(cfg.CORSOrigin))
	// Preflight requests are answered by the CORS middleware.
	api.OPTIONS("/*path", func(*gin.Context) {})

	authed := middleware.Authenticate(cfg.Tokens)
	staff := []gin.HandlerFunc{authed, middleware.RequireStaff()}
	manager := []gin.HandlerFunc{authed, middleware.RequireManager()}
	customer := []gin.HandlerFunc{authed, middleware.RequireCustomer()}

	// Customers
	customers := api.Group("/customers")
	{
		customers.POST("/register", cfg.Customers.Register)
		customers.POST("/signin", cfg.Customers.SignIn)
		customers.POST("/forgot-password", cfg.Customers.ForgotPassword)

		me := customers.Group("", customer...)
		me.GET("/profile", cfg.Customers.Profile)
		me.PUT("/update-information", cfg.Customers.UpdateInformation)
		me.PUT("/update-address", cfg.Customers.UpdateAddress)
	}

	// Orders
	orders := api.Group("/orders")
	{
		orders.POST("", cfg.Orders.CreateGuest)
		orders.GET("/guest/orders/:phone", cfg.Orders.GuestOrders)
		orders.PUT("/guest/complete/:id", cfg.Orders.CompleteGuest)

		orders.GET("", append(staff, cfg.Orders.List)...)
		orders.GET("/revenue", append(staff, cfg.Orders.Revenue)...)
		orders.POST("/update", append(staff, cfg.Orders.Advance)...)

		orders.POST("/create", append(customer, cfg.Orders.CreateForCustomer)...)
		orders.GET("/user/orders", append(customer, cfg.Customers.Orders)...)
		orders.GET("/user/favorite-meals", append(customer, cfg.Customers.FavoriteMeals)...)
		orders.PUT("/:id/complete", append(customer, cfg.Orders.Complete)...)

		orders.POST("/cancel", authed, cfg.Orders.Cancel)
		orders.GET("/:id", authed, cfg.Orders.Get)
	}

	// Payments
	payments := api.Group("/payments")
	{
		payments.POST("/create", authed, cfg.Payments.Create)
		payments.POST("/momo/callback", cfg.Payments.MoMoCallback)
		payments.POST("/vietcombank/callback", cfg.Payments.VietcombankCallback)
	}

	// Staff
	staffGroup := api.Group("/staff")
	{
		staffGroup.POST("/login", cfg.Staff.Login)
		staffGroup.GET("/me", append(staff, cfg.Staff.Me)...)
		staffGroup.GET("/all", append(staff, cfg.Staff.List)...)
		staffGroup.GET("/salary", append(staff, cfg.Staff.Salary)...)
		staffGroup.GET("/salaries", append(manager, cfg.Staff.Salaries)...)
		staffGroup.POST("", append(manager, cfg.Staff.Create)...)
		staffGroup.PUT("/:id", append(manager, cfg.Staff.Update)...)
		staffGroup.DELETE("/:id", append(manager, cfg.Staff.Delete)...)
	}

	// Schedules
	schedules := api.Group("/schedules", staff...)
	{
		schedules.GET("", cfg.Schedules.Week)
		schedules.GET("/week", cfg.Schedules.Week)
		schedules.POST("/month", cfg.Schedules.Month)
		schedules.GET("/employee", cfg.Schedules.ForEmployee)
		schedules.POST("", middleware.RequireManager(), cfg.Schedules.Create)
		schedules.DELETE("", middleware.RequireManager(), cfg.Schedules.DeleteBlock)
		schedules.DELETE("/:scheduleId", middleware.RequireManager(), cfg.Schedules.DeleteEntry)
	}

	// Recipes
	recipes := api.Group("/recipes")
	{
		recipes.GET("", cfg.Recipes.Menu)
		recipes.GET("/:id", cfg.Recipes.Get)
		recipes.POST("", append(staff, cfg.Recipes.Create)...)
		recipes.PUT("/:id", append(staff, cfg.Recipes.Update)...)
		recipes.DELETE("/:id", append(manager, cfg.Recipes.Delete)...)
		recipes.POST("/active", append(staff, cfg.Recipes.Activate)...)
		recipes.POST("/inactive", append(staff, cfg.Recipes.Deactivate)...)
	}

	// Inventory
	ingredients := api.Group("/ingredients", staff...)
	{
		ingredients.GET("", cfg.Inventory.ListIngredients)
		ingredients.POST("", cfg.Inventory.CreateIngredient)
		ingredients.GET("/waste", cfg.Inventory.ListWaste)
		ingredients.POST("/waste", cfg.Inventory.RecordWaste)
		ingredients.PUT("/:id", cfg.Inventory.UpdateIngredient)
		ingredients.DELETE("/:id", cfg.Inventory.DeleteIngredient)
		ingredients.GET("/:id/restocks", cfg.Inventory.IngredientRestocks)
	}

	restock := api.Group("/restock", staff...)
	{
		restock.GET("", cfg.Inventory.ListRestocks)
		restock.POST("", cfg.Inventory.CreateRestock)
		restock.GET("/:id", cfg.Inventory.GetRestock)
	}

	suppliers := api.Group("/suppliers", staff...)
	{
		suppliers.GET("", cfg.Inventory.ListSuppliers)
		suppliers.POST("", cfg.Inventory.CreateSupplier)
	}

	// Sales
	sales := api.Group("/sales", staff...)
	{
		sales.GET("", cfg.Sales.DailyCounts)
		sales.GET("/daily/:year/:month", cfg.Sales.DailyCounts)
	}

	return router
}
