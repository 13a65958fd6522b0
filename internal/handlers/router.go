package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/stresszero/quizbot-service/internal/content"
	"github.com/stresszero/quizbot-service/internal/services"
	"github.com/stresszero/quizbot-service/internal/utils"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	contentHandler *ContentHandler
	cookieStore    *sessions.CookieStore
}

func NewHandlerManager(
	sessionService services.SessionService,
	exportService services.ExportService,
	acquirer *content.Acquirer,
	cookieStore *sessions.CookieStore,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(sessionService, exportService, validator, logger),
		contentHandler: NewContentHandler(acquirer, logger),
		cookieStore:    cookieStore,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quizbot-service",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(SessionMiddleware(hm.cookieStore))
	{
		// Content acquisition
		materials := v1.Group("/materials")
		{
			materials.POST("/upload", hm.contentHandler.UploadMaterial)
			materials.GET("/wikipedia", hm.contentHandler.LookupWikipedia)
		}

		// Quiz session lifecycle
		session := v1.Group("/session")
		{
			session.GET("", hm.sessionHandler.GetSession)
			session.POST("/generate", hm.sessionHandler.GenerateQuiz)
			session.POST("/submit", hm.sessionHandler.SubmitAnswers)
			session.POST("/review", hm.sessionHandler.ReviewQuiz)
			session.POST("/reset", hm.sessionHandler.ResetSession)
			session.GET("/export", hm.sessionHandler.ExportResults)
		}
	}
}
