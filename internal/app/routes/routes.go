package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolsite/internal/app/controllers"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/middleware"
	"github.com/yigit/schoolsite/internal/pkg/websocket"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Site      *controllers.SiteController
	Admission *controllers.AdmissionController
	Stats     *controllers.StatsController
	Auth      *controllers.AuthController
	Admin     *controllers.AdminController
	Live      *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	visitorCfg middleware.VisitorConfig,
) {
	// --- Public HTML pages ---
	pages := router.Group("")
	pages.Use(middleware.Visitor(visitorCfg))
	{
		pages.GET("/", ctrl.Site.Home)
		pages.GET("/notices", ctrl.Site.Notices)
		pages.GET(controllers.AdmissionPath, ctrl.Admission.Form)
		pages.POST(controllers.AdmissionPath, ctrl.Admission.Submit)
		pages.GET(controllers.ConfirmationPath, ctrl.Admission.Confirmation)
	}

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/stats", ctrl.Stats.Stats)
	v1.GET("/health", ctrl.Stats.Health)
	v1.GET("/notices/live", ctrl.Live.HandleConnection)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Admin routes (JWT + admin role) ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.PUT("/academic-years/:id/current", ctrl.Admin.SetCurrentYear)
		admin.POST("/notices", ctrl.Admin.CreateNotice)
	}
}
