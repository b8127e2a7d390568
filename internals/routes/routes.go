package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spiderworks-akhil/website-monitor-client/internals/clients/backend"
	"github.com/spiderworks-akhil/website-monitor-client/internals/config"
	"github.com/spiderworks-akhil/website-monitor-client/internals/controllers"
	"github.com/spiderworks-akhil/website-monitor-client/internals/middleware"
	"github.com/spiderworks-akhil/website-monitor-client/internals/session"
	"github.com/spiderworks-akhil/website-monitor-client/internals/signin"
)

// SignInPath is where every failed guard check lands.
const SignInPath = "/signin"

func SetupRouter(cfg *config.Config, sessions *session.Manager, flow *signin.Flow, monitor *backend.MonitorClient) *gin.Engine {
	r := gin.Default()

	cookieCfg := cfg.Cookie()

	guard := middleware.NewRouteGuard(cfg.JWTSecret, SignInPath)
	authCtrl := controllers.NewAuthController(flow, sessions, monitor, &cookieCfg)
	websiteCtrl := controllers.NewWebsiteController(monitor)
	settingsCtrl := controllers.NewSettingsController(monitor)
	userCtrl := controllers.NewUserController(monitor, sessions)

	public := r.Group("/")
	{
		public.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "active",
				"message": "Website Monitor dashboard client is running",
			})
		})
		public.POST("/signin", authCtrl.SignIn)
		public.POST("/signin/verify", authCtrl.VerifyToken)
		public.POST("/logout", authCtrl.Logout)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The guard applies only to the dashboard tree; everything else is
	// implicitly unguarded.
	dashboard := r.Group("/dashboard")
	dashboard.Use(guard.Guard)
	{
		dashboard.GET("/session", authCtrl.Session)
		dashboard.POST("/session/refresh", authCtrl.RefreshSession)

		websites := dashboard.Group("/websites")
		{
			websites.GET("/", websiteCtrl.List)
			websites.POST("/", websiteCtrl.Add)
			websites.GET("/check", websiteCtrl.Check)
			websites.GET("/:id", websiteCtrl.Details)
			websites.DELETE("/:id/status-history", websiteCtrl.DeleteHistory)
		}

		settings := dashboard.Group("/settings")
		{
			settings.GET("/frequency", settingsCtrl.GetFrequency)
			settings.POST("/frequency", settingsCtrl.UpdateFrequency)
		}

		users := dashboard.Group("/users")
		{
			users.POST("/", userCtrl.Create)
			users.POST("/profile", userCtrl.UpdateProfile)
		}
	}

	return r
}
