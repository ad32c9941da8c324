package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	"github.com/couchcryptid/disaster-dashboard/internal/observability"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Loader supplies the current event table. A failed fetch is reported through
// Dataset.Err rather than a separate error return.
type Loader interface {
	Load(ctx context.Context) domain.Dataset
}

// NewRouter creates the dashboard engine with all routes configured.
func NewRouter(loader Loader, metrics *observability.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"level": statusLevel,
	}).ParseFS(templatesFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	h := NewHandler(loader, metrics, logger)
	r.GET("/", h.Dashboard)

	api := r.Group("/api")
	{
		api.GET("/view", h.GetView)
		api.GET("/events", h.ListEvents)
		api.GET("/options", h.GetOptions)
	}

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// statusLevel maps a view status to the severity used to style its message.
func statusLevel(s domain.ViewStatus) string {
	switch s {
	case domain.ViewFetchError:
		return "error"
	case domain.ViewEmpty, domain.ViewNoMatch:
		return "warning"
	default:
		return "success"
	}
}
