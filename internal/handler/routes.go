package handler

import (
	"CommitBuddy_NutritionAdvisor/internal/config"
	"CommitBuddy_NutritionAdvisor/internal/middleware"
	"CommitBuddy_NutritionAdvisor/internal/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes registers the form, the JSON API, the progress stream and the API docs.
func SetupRoutes(router *gin.Engine, h *PlanHandler, cfg *config.Config) {
	router.SetHTMLTemplate(web.Templates())
	router.StaticFS("/static", web.Static())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	guarded := router.Group("/", middleware.RequireCredentials(cfg))
	{
		guarded.GET("/", h.Index)
		guarded.POST("/plan", h.SubmitForm)
		guarded.GET("/ws/plan", h.StreamPlan)
		guarded.POST("/api/plan", h.CreatePlan)
	}
}
