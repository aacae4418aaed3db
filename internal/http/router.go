package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jpcarvalho/divvy/internal/http/export"
	"github.com/jpcarvalho/divvy/internal/http/group"
	"github.com/jpcarvalho/divvy/internal/http/importjson"
	"github.com/jpcarvalho/divvy/internal/http/importzip"
)

func New(
	groupsV1 *group.Handler,
	importJSONV1 *importjson.Handler,
	importZipV1 *importzip.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/groups", func(r chi.Router) {
			groupsV1.Routes(r)
			exportV1.Routes(r)
		})

		r.Route("/import", func(r chi.Router) {
			r.Route("/json", importJSONV1.Routes)
			r.Route("/backup", importZipV1.Routes)
		})
	})

	return router
}
