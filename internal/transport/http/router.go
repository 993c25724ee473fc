package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appsession "optimistic-arena/internal/app/session"
	"optimistic-arena/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const auditCaptureBytes = 8192

// NewRouter mounts the arena API. db is pinged by /healthz and may be nil.
func NewRouter(svc *appsession.Service, cfg config.ServerConfig, db Pinger) *chi.Mux {
	sessionHandlers := NewSessionHandlers(svc)
	seasonHandlers := NewSeasonHandlers(svc)
	adminHandlers := NewAdminHandlers(svc, db)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Post("/sessions", sessionHandlers.Create())
		r.Route("/sessions/{session_id}", func(r chi.Router) {
			r.Get("/", sessionHandlers.Get())
			r.Post("/players", sessionHandlers.Join())
			r.Post("/rounds", sessionHandlers.StartRound())
			r.Post("/submissions", sessionHandlers.Submit())
			r.Post("/votes", sessionHandlers.Vote())
			r.Post("/proposals", sessionHandlers.Propose())

			audited := r.With(AuditBodyMiddleware(auditCaptureBytes))
			audited.Post("/verifications", sessionHandlers.Verify())
			audited.Post("/appeals", sessionHandlers.Challenge())
			audited.Post("/appeals/resolve", sessionHandlers.ResolveAppeals())
			audited.Post("/finalize", sessionHandlers.Finalize())
		})

		r.Get("/season/standings", seasonHandlers.Standings())
		r.Get("/season/players/{player_id}", seasonHandlers.Player())

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/season/reset", adminHandlers.ResetSeason())
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
