package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sealnote/sealnote/internal/notes"
	"github.com/sealnote/sealnote/internal/ratelimit"
)

const requestIDContextKey = "sealnote_request_id"

var (
	errMissingNotesService = errors.New("notes service dependency required")
	errMissingLimiter      = errors.New("rate limiter dependency required")
)

// Dependencies bundles everything the HTTP layer needs.
type Dependencies struct {
	NotesService *notes.Service
	Limiter      ratelimit.Limiter
	BaseURL      string
	Logger       *zap.Logger
}

// NewHTTPHandler wires the gin router with middleware and the note routes.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.NotesService == nil {
		return nil, errMissingNotesService
	}
	if deps.Limiter == nil {
		return nil, errMissingLimiter
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		notesService: deps.NotesService,
		limiter:      deps.Limiter,
		baseURL:      deps.BaseURL,
		logger:       logger,
	}

	api := router.Group("/api/notes")
	api.POST("", handler.rateLimited(ratelimit.BucketCreate), handler.handleCreateNote)
	api.GET("/:id/exists", handler.handleCheckExists)
	api.POST("/:id/unlock", handler.rateLimited(ratelimit.BucketUnlock), handler.handleUnlockNote)
	api.POST("/:id/summarize", handler.rateLimited(ratelimit.BucketSummarize), handler.handleSummarizeNote)

	return router, nil
}

type httpHandler struct {
	notesService *notes.Service
	limiter      ratelimit.Limiter
	baseURL      string
	logger       *zap.Logger
}

// requestIDMiddleware attaches a request identifier for log correlation.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// rateLimited enforces the bucket's ceiling per client address. Limiter backend
// failures are logged and let the request through: counters are advisory.
func (h *httpHandler) rateLimited(bucket ratelimit.Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := h.limiter.Allow(c.Request.Context(), c.ClientIP(), bucket)
		if err != nil {
			h.logger.Warn("rate limiter unavailable",
				zap.String("bucket", bucket.Name),
				zap.String("request_id", c.GetString(requestIDContextKey)),
				zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			respondError(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
