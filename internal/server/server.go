// Package server assembles the HTTP router for the API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/bucketdrop/service/internal/file"
	appMiddleware "github.com/bucketdrop/service/internal/middleware"
	"github.com/bucketdrop/service/internal/post"
	"github.com/bucketdrop/service/internal/response"
	"github.com/bucketdrop/service/internal/web"

	_ "github.com/bucketdrop/service/docs/swagger"
)

const banner = "S3 File Upload API is running 🚀\nCheck /api/files for file operations"

// Deps are the handlers and settings the router is built from.
type Deps struct {
	Files       *file.Handler
	Posts       *post.Handler
	CORSOrigins []string
	JWTSecret   string
}

type testResponse struct {
	Status    string    `json:"status"    example:"success"`
	Message   string    `json:"message"   example:"Backend API is working!"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRouter returns the fully wired HTTP handler.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(appMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(func(h http.Handler) http.Handler { return gzhttp.GzipHandler(h) })

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(banner))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	// Swagger UI at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Handle("/ui/*", web.Handler("/ui/"))
	r.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusMovedPermanently)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(d.JWTSecret))

		r.Get("/test", selfTest)

		r.Post("/upload", d.Files.Upload)
		r.Get("/files", d.Files.List)
		r.Delete("/file/*", d.Files.Delete)

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", d.Posts.Create)
			r.Get("/", d.Posts.List)
			r.Get("/{id}", d.Posts.Get)
			r.Delete("/{id}", d.Posts.Delete)
		})
	})

	return r
}

// selfTest godoc
//
//	@Summary	Backend self-test
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	testResponse
//	@Router		/test [get]
func selfTest(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, testResponse{
		Status:    "success",
		Message:   "Backend API is working!",
		Timestamp: time.Now().UTC(),
	})
}
