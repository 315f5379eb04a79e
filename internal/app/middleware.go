package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/runwayclock/runwayclock/internal/config"
	"github.com/runwayclock/runwayclock/pkg/user"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-User-Id header into context for downstream services.
	// Identity is established by the auth proxy in front of the app;
	// requests without the header proceed unauthenticated and are
	// rejected per-endpoint where identity is required.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userIdHeader := req.Header.Get("X-User-Id")
			ctx := req.Context()

			if userIdHeader != "" {
				log.Debugf("request authenticated as: %s", userIdHeader)
				ctx = user.WithUid(ctx, userIdHeader)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
