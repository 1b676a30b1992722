package app

import (
	"shuati_backend/docs"
	"shuati_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 题集
		api.POST("/question-sets", c.question.CreateSet)
		api.GET("/question-sets", c.question.ListSets)
		api.GET("/question-sets/:id", c.question.GetSet)
		api.DELETE("/question-sets/:id", c.question.DeleteSet)
		api.GET("/question-sets/:id/questions", c.question.ListSetQuestions)
		api.POST("/question-sets/:id/import", c.question.ImportBatch)
		api.POST("/question-sets/import-document", c.question.ImportDocument)
		api.GET("/question-sets/:id/progress", c.practice.GetSetProgress)

		// 题目
		api.GET("/questions", c.question.Search)
		api.GET("/questions/:id", c.question.GetQuestion)
		api.GET("/questions/:id/attempts", c.practice.ListAttempts)

		// 练习
		api.POST("/attempts", c.practice.RecordAttempt)
		api.POST("/attempts/skip", c.practice.RecordSkip)
		api.GET("/mistakes", c.practice.ListMistakes)

		// 生成
		api.POST("/generation/questions", c.generation.Generate)

		// 媒体
		api.POST("/media/upload", c.media.Upload)
	}
}
