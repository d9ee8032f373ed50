package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/complaints", handler.listComplaints)
		protected.GET("/complaints/:id", handler.getComplaint)
		protected.POST("/complaints", handler.createComplaint)
		protected.PUT("/complaints/:id/status", handler.transitionComplaint)
		protected.PUT("/complaints/:id/escalate", handler.escalateComplaint)
		protected.PUT("/complaints/:id/override", handler.overrideComplaint)
		protected.POST("/complaints/:id/attachments", handler.addComplaintAttachment)

		protected.GET("/notices", handler.listNotices)
		protected.GET("/notices/:slug", handler.getNotice)
		protected.POST("/notices", handler.createNotice)
		protected.PUT("/notices/:id", handler.updateNotice)
		protected.PUT("/notices/:id/publish", handler.publishNotice)
		protected.PUT("/notices/:id/archive", handler.archiveNotice)

		protected.GET("/notifications", handler.listNotifications)
		protected.PUT("/notifications/:id/read", handler.markNotificationRead)

		protected.GET("/payments", handler.listPayments)
		protected.GET("/payments/:reference", handler.getPayment)

		protected.GET("/dashboard", handler.getDashboard)
	}

	return router
}
