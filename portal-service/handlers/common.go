package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"carelink-backend/portal-service/services"
	"carelink-backend/shared/config"
	"carelink-backend/shared/pipeline"
)

// pipe is the process-wide mutation pipeline; all handler writes go through it
var pipe *pipeline.Pipeline

// limiter is the per-actor event rate limiter (invite creation)
var limiter *pipeline.RateLimiter

// taskClient enqueues background jobs (invite emails)
var taskClient *asynq.Client

// media stores uploaded content images; nil disables uploads
var media *services.MediaService

// Init wires the handler package's collaborators. Called once from main
// before routes are registered.
func Init(p *pipeline.Pipeline, l *pipeline.RateLimiter, tc *asynq.Client, ms *services.MediaService) {
	pipe = p
	limiter = l
	taskClient = tc
	media = ms
}

// formValues parses the request body as a form, tolerating multipart posts
func formValues(c *gin.Context) (url.Values, *pipeline.Failure) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		return nil, pipeline.Validation("", "Malformed form body")
	}
	return c.Request.PostForm, nil
}

// actor returns the resolved access context set by the access middleware
func actor(c *gin.Context) *pipeline.AccessContext {
	if v, exists := c.Get("access"); exists {
		if ac, ok := v.(*pipeline.AccessContext); ok {
			return ac
		}
	}
	return nil
}

// parseID parses a UUID path parameter, failing as validation on bad input
func parseID(c *gin.Context, name string) (uuid.UUID, *pipeline.Failure) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, pipeline.Validation(name, "Invalid identifier")
	}
	return id, nil
}

// renderFailure writes the uniform error envelope for a pipeline failure.
// Unauthenticated responses carry the login redirect; rate-limited responses
// carry the retry delay; validation responses carry the offending field.
func renderFailure(c *gin.Context, f *pipeline.Failure) {
	body := gin.H{
		"success": false,
		"error":   f.Message,
	}

	switch f.Kind {
	case pipeline.FailureUnauthenticated:
		cfg := config.GetConfig()
		body["login_url"] = cfg.FrontendURL + "/login?next=" + c.Request.URL.Path
	case pipeline.FailureValidation:
		if f.Field != "" {
			body["field"] = f.Field
		}
	case pipeline.FailureRateLimited:
		body["retry_ms"] = f.RetryIn.Milliseconds()
	}

	c.JSON(f.HTTPStatus(), body)
}

// renderSuccess writes the uniform success envelope
func renderSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
