package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	controllers "github.com/gitbyjay25/nss-portal-backend/controllers"
	middleware "github.com/gitbyjay25/nss-portal-backend/middleware"
	scheduler "github.com/gitbyjay25/nss-portal-backend/scheduler"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, sweeper *scheduler.StatusUpdater) {
	auth := middleware.AuthMiddleware(cfg)
	adminOnly := middleware.RequireRole("admin")

	api := r.Group("/api")

	// public
	api.POST("/auth/register", controllers.Register(cfg))
	api.POST("/auth/login", controllers.Login(cfg))
	api.GET("/events", controllers.ListEvents(cfg))
	api.GET("/events/:id", controllers.GetEvent(cfg))
	api.POST("/events/:id/external-register", controllers.ExternalRegister(cfg))
	api.GET("/gallery", controllers.ListGalleryItems(cfg))
	api.GET("/announcements", controllers.ListAnnouncements(cfg))
	api.GET("/teams", controllers.ListTeams(cfg))
	api.POST("/feedback", controllers.SubmitFeedback(cfg))

	// authenticated
	authed := api.Group("")
	authed.Use(auth)
	{
		authed.GET("/auth/me", controllers.Me(cfg))
		authed.POST("/auth/apply-nss", controllers.ApplyNSS(cfg))

		authed.POST("/events/:id/register", controllers.RegisterForEvent(cfg))
		authed.DELETE("/events/:id/unregister", controllers.UnregisterFromEvent(cfg))

		authed.GET("/attendance/volunteer/:id", controllers.GetVolunteerAttendanceHistory(cfg))
	}

	// admin
	admin := api.Group("")
	admin.Use(auth, adminOnly)
	{
		admin.GET("/auth/applications", controllers.ListNSSApplications(cfg))
		admin.PATCH("/auth/applications/:id", controllers.ReviewNSSApplication(cfg))

		admin.POST("/events", controllers.CreateEvent(cfg))
		admin.PATCH("/events/:id", controllers.UpdateEvent(cfg))
		admin.DELETE("/events/:id", controllers.DeleteEvent(cfg))
		admin.POST("/events/update-statuses", controllers.UpdateEventStatuses(sweeper))

		admin.GET("/attendance/event/:eventId", controllers.GetEventAttendance(cfg))
		admin.POST("/attendance/event/:eventId/mark", controllers.MarkAttendance(cfg))
		admin.GET("/attendance/event/:eventId/export", controllers.ExportAttendanceReport(cfg))

		admin.POST("/gallery", controllers.CreateGalleryItem(cfg))
		admin.DELETE("/gallery/:id", controllers.DeleteGalleryItem(cfg))

		admin.POST("/announcements", controllers.CreateAnnouncement(cfg))
		admin.PATCH("/announcements/:id", controllers.UpdateAnnouncement(cfg))
		admin.DELETE("/announcements/:id", controllers.DeleteAnnouncement(cfg))

		admin.GET("/feedback", controllers.ListFeedback(cfg))

		admin.POST("/teams", controllers.CreateTeam(cfg))
		admin.PATCH("/teams/:id", controllers.UpdateTeam(cfg))
		admin.DELETE("/teams/:id", controllers.DeleteTeam(cfg))

		admin.GET("/users", controllers.ListUsers(cfg))
		admin.DELETE("/users/:id", controllers.DeleteUser(cfg))
	}

	// self-or-admin, checked in the handler
	users := api.Group("/users")
	users.Use(auth)
	{
		users.GET("/:id", controllers.GetUser(cfg))
		users.PATCH("/:id", controllers.UpdateUser(cfg))
	}
}
