package transport

import (
	"github.com/bdsvietnam/bdshub.go/controllers"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// Middlewares bundles what RegisterEndpoints attaches to the routes.
type Middlewares struct {
	// Auth resolves the bearer token, Admin additionally requires the admin role.
	Auth  echo.MiddlewareFunc
	Admin echo.MiddlewareFunc
	// AdminToken guards machine-to-machine routes with the static ADMIN_TOKEN.
	AdminToken echo.MiddlewareFunc
	StrictRate echo.MiddlewareFunc
	Log        echo.MiddlewareFunc
	Cache      echo.MiddlewareFunc
}

func RegisterEndpoints(svc *service.BdshubService, e *echo.Echo, mw Middlewares, version string) {
	secured := e.Group("", mw.Auth, mw.Log)
	securedWithStrictRateLimit := e.Group("", mw.Auth, mw.StrictRate, mw.Log)
	admin := e.Group("/admin", mw.Auth, mw.Admin, mw.Log)
	// listing writes live next to the public reads
	adminOnly := []echo.MiddlewareFunc{mw.Auth, mw.Admin, mw.Log}

	homeCtrl := controllers.NewHomeController(version)
	e.GET("/", homeCtrl.Home)
	e.GET("/health", homeCtrl.Health)

	authCtrl := controllers.NewAuthController(svc)
	e.POST("/auth/register", authCtrl.Register, mw.StrictRate, mw.Log)
	e.POST("/auth/login", authCtrl.Login, mw.Log)
	secured.GET("/auth/me", authCtrl.Me)
	secured.PUT("/auth/profile", authCtrl.UpdateProfile)

	walletCtrl := controllers.NewWalletController(svc)
	secured.GET("/wallet/balance", walletCtrl.Balance)
	secured.GET("/wallet/transactions", walletCtrl.Transactions)
	securedWithStrictRateLimit.POST("/wallet/deposit", walletCtrl.Deposit)
	secured.GET("/member/bank-info", walletCtrl.BankInfo)
	secured.GET("/member/bank-info/qr", walletCtrl.BankQR)
	// the websocket authenticates with the token query param
	e.GET("/wallet/stream", controllers.NewEventStreamController(svc).StreamEvents)

	postCtrl := controllers.NewMemberPostController(svc)
	securedWithStrictRateLimit.POST("/member/posts", postCtrl.Submit)
	secured.GET("/member/posts", postCtrl.List)
	secured.GET("/member/posts/:id", postCtrl.Get)
	secured.PUT("/member/posts/:id", postCtrl.Update)
	secured.DELETE("/member/posts/:id", postCtrl.Delete)

	adminPostCtrl := controllers.NewAdminPostController(svc)
	admin.GET("/posts", adminPostCtrl.List)
	admin.GET("/posts/pending", adminPostCtrl.Pending)
	admin.PUT("/posts/:id/approve", adminPostCtrl.Approve)
	admin.PUT("/posts/:id/reject", adminPostCtrl.Reject)

	adminTxCtrl := controllers.NewAdminTransactionController(svc)
	admin.GET("/transactions", adminTxCtrl.List)
	admin.PUT("/transactions/:id/approve", adminTxCtrl.Approve)
	admin.PUT("/transactions/:id/reject", adminTxCtrl.Reject)

	adminUserCtrl := controllers.NewAdminUserController(svc)
	admin.GET("/users", adminUserCtrl.List)
	admin.GET("/users/:id", adminUserCtrl.Get)
	admin.PUT("/users/:id", adminUserCtrl.Update)
	admin.PUT("/users/:id/status", adminUserCtrl.SetStatus)
	admin.PUT("/users/:id/balance", adminUserCtrl.AdjustBalance)
	e.POST("/admin/users", adminUserCtrl.Create, mw.StrictRate, mw.AdminToken, mw.Log)

	statsCtrl := controllers.NewStatsController(svc)
	settingsCtrl := controllers.NewSettingsController(svc)
	messageCtrl := controllers.NewMessageController(svc)
	admin.GET("/dashboard/stats", statsCtrl.Dashboard)
	admin.GET("/settings", settingsCtrl.Get)
	admin.PUT("/settings", settingsCtrl.Update)
	admin.GET("/messages/unread", messageCtrl.UnreadCount)
	e.GET("/settings", settingsCtrl.Get, mw.Cache)
	e.GET("/stats", statsCtrl.Public, mw.Cache)

	propertyCtrl := controllers.NewPropertyController(svc)
	e.GET("/properties", propertyCtrl.List)
	e.GET("/properties/featured", propertyCtrl.Featured)
	e.GET("/properties/search", propertyCtrl.Search)
	e.GET("/properties/:id", propertyCtrl.Get)
	e.POST("/properties", propertyCtrl.Create, adminOnly...)
	e.PUT("/properties/:id", propertyCtrl.Update, adminOnly...)
	e.DELETE("/properties/:id", propertyCtrl.Delete, adminOnly...)

	landCtrl := controllers.NewLandController(svc)
	e.GET("/lands", landCtrl.List)
	e.GET("/lands/featured", landCtrl.Featured)
	e.GET("/lands/search", landCtrl.Search)
	e.GET("/lands/:id", landCtrl.Get)
	e.POST("/lands", landCtrl.Create, adminOnly...)
	e.PUT("/lands/:id", landCtrl.Update, adminOnly...)
	e.DELETE("/lands/:id", landCtrl.Delete, adminOnly...)

	simCtrl := controllers.NewSimController(svc)
	e.GET("/sims", simCtrl.List)
	e.GET("/sims/search", simCtrl.Search)
	e.GET("/sims/:id", simCtrl.Get)
	e.POST("/sims", simCtrl.Create, adminOnly...)
	e.PUT("/sims/:id", simCtrl.Update, adminOnly...)
	e.DELETE("/sims/:id", simCtrl.Delete, adminOnly...)

	newsCtrl := controllers.NewNewsController(svc)
	e.GET("/news", newsCtrl.List)
	e.GET("/news/:id", newsCtrl.Get)
	e.POST("/news", newsCtrl.Create, adminOnly...)
	e.PUT("/news/:id", newsCtrl.Update, adminOnly...)
	e.DELETE("/news/:id", newsCtrl.Delete, adminOnly...)

	ticketCtrl := controllers.NewTicketController(svc)
	e.POST("/tickets", ticketCtrl.Create, mw.StrictRate, mw.Log)
	e.GET("/tickets", ticketCtrl.List, adminOnly...)
	e.GET("/tickets/:id", ticketCtrl.Get, adminOnly...)
	e.PUT("/tickets/:id", ticketCtrl.Update, adminOnly...)
	e.DELETE("/tickets/:id", ticketCtrl.Delete, adminOnly...)

	secured.POST("/messages", messageCtrl.Send)
	secured.GET("/messages", messageCtrl.List)
	secured.PUT("/messages/:id/read", messageCtrl.MarkRead)

	analyticsCtrl := controllers.NewAnalyticsController(svc)
	e.POST("/analytics/pageview", analyticsCtrl.TrackPageView)
	e.GET("/analytics/traffic", analyticsCtrl.Traffic, adminOnly...)
	e.GET("/analytics/popular-pages", analyticsCtrl.PopularPages, adminOnly...)

	uploadCtrl := controllers.NewUploadController()
	secured.POST("/upload/image", uploadCtrl.Image)
	secured.POST("/upload/multiple-images", uploadCtrl.MultipleImages)
}
