package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openlancer/openlancer-backend/internal/auth"
	"github.com/openlancer/openlancer-backend/internal/form"
	"github.com/openlancer/openlancer-backend/internal/services"
)

// Config holds the HTTP-surface settings.
type Config struct {
	AllowedOrigins []string
}

// NewRouter wires the API routes. Authentication is attach-only: anonymous
// requests reach the handlers, and the submission action decides what a
// missing identity means.
func NewRouter(config Config, verifier *auth.Verifier, submissions *services.SubmissionService, drafts form.DraftStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(auth.Middleware(verifier))

	h := &handlers{submissions: submissions, drafts: drafts}

	router.GET("/healthz", h.health)
	api := router.Group("/api")
	{
		api.POST("/profile", h.submitProfile)
		api.GET("/profiles/:id", h.profileByID)
		api.GET("/profile/draft", h.loadDraft)
		api.PUT("/profile/draft", h.saveDraft)
		api.DELETE("/profile/draft", h.deleteDraft)
	}
	return router
}
