// Package v1 mounts the editor API.
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pipeline-builder/interfaces/http/rest/handlers"
)

// NewRouter creates the v1 API router
func NewRouter(
	nodeHandler *handlers.NodeHandler,
	edgeHandler *handlers.EdgeHandler,
	graphHandler *handlers.GraphHandler,
) chi.Router {
	r := chi.NewRouter()
	r.Use(versionHeaders)

	r.Get("/node-types", graphHandler.ListNodeTypes)

	r.Route("/canvas", func(r chi.Router) {
		r.Get("/", graphHandler.GetCanvas)
		r.Post("/reset", graphHandler.Reset)
		r.Post("/submit", graphHandler.Submit)

		// Node endpoints
		r.Post("/nodes", nodeHandler.DropNode)
		r.Route("/nodes/{nodeID}", func(r chi.Router) {
			r.Get("/", nodeHandler.GetNode)
			r.Delete("/", nodeHandler.DeleteNode)
			r.Put("/position", nodeHandler.MoveNode)
			r.Patch("/fields/{field}", nodeHandler.UpdateField)
		})

		// Edge endpoints
		r.Post("/edges", edgeHandler.ConnectNodes)
		r.Delete("/edges/{edgeID}", edgeHandler.DeleteEdge)
	})

	return r
}

// versionHeaders adds API version headers to responses
func versionHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		next.ServeHTTP(w, r)
	})
}
