package rest

import (
	"fmt"
	"net/http"
	"strings"

	_ "csvinsights/docs"
	"csvinsights/internal/service"
	"csvinsights/internal/transport/rest/handler"
	"csvinsights/internal/transport/rest/middleware"
	"csvinsights/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	ReportService   *service.ReportService
	FollowupService *service.FollowupService
	HealthService   *service.HealthService
	WSHub           *ws.Hub

	MaxUploadBytes     int64
	AuthRequired       bool
	CORSAllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	reportHandler := handler.NewReportHandler(c.ReportService, c.MaxUploadBytes)
	followupHandler := handler.NewFollowupHandler(c.FollowupService)
	healthHandler := handler.NewHealthHandler(c.HealthService)
	wsHandler := ws.NewHandler(c.WSHub)

	cors := corsMiddleware(c.CORSAllowedOrigins)
	r.Use(middleware.RequestID, middleware.Logging, cors)

	r.HandleFunc("/", healthHandler.Root).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", healthHandler.Health).Methods("GET", "OPTIONS")
	api.HandleFunc("/swagger/doc.json", healthHandler.Docs).Methods("GET", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/reports", reportHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/reports/{id}", reportHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/reports/{id}/insights.md", reportHandler.Insights).Methods("GET", "OPTIONS")
	api.HandleFunc("/reports/{id}/columns/{column}/chart.png", reportHandler.ColumnChart).Methods("GET", "OPTIONS")

	// WebSocket route
	api.HandleFunc("/ws/reports/{id}", wsHandler.ReportWS).Methods("GET")

	// Write routes (host token required when AUTH_REQUIRED is set)
	writeRoutes := api.NewRoute().Subrouter()
	if c.AuthRequired {
		writeRoutes.Use(middleware.NewAuthMiddleware(c.AuthService).RequireHost)
	}
	writeRoutes.HandleFunc("/reports", reportHandler.Create).Methods("POST")
	writeRoutes.HandleFunc("/reports/{id}/followups", followupHandler.Ask).Methods("POST", "OPTIONS")

	notFound := middleware.RequestID(middleware.Logging(cors(http.HandlerFunc(notFoundHandler))))
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	return r
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, `{"error":%q}`, "Not found: "+r.Method+" "+r.URL.Path)
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	allowed := map[string]bool{}
	wildcard := allowedOrigins == "" || allowedOrigins == "*"
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id, Content-Disposition")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
