package http

import (
	"log/slog"
	"net/http"

	"happeningvibe/internal/delivery/http/controllers"
	"happeningvibe/internal/delivery/http/middleware"
	"happeningvibe/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers served by the router.
type Controllers struct {
	Health   *controllers.HealthController
	Auth     *controllers.AuthController
	Profile  *controllers.ProfileController
	Event    *controllers.EventController
	Calendar *controllers.CalendarController
}

// RouterConfig holds the cross-cutting pieces wrapped around the routes.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AuthLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and
// wraps it in CORS and access logging.
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier)
	limit := cfg.AuthLimiter.Limit

	mux.HandleFunc("GET /health", c.Health.Health)

	// Auth
	mux.HandleFunc("POST /auth/signup", limit(c.Auth.SignUp))
	mux.HandleFunc("POST /auth/verify-email", limit(c.Auth.VerifyEmail))
	mux.HandleFunc("POST /auth/resend-verification", limit(c.Auth.ResendVerification))
	mux.HandleFunc("POST /auth/signin", limit(c.Auth.SignIn))
	mux.HandleFunc("POST /auth/forgot-password", limit(c.Auth.ForgotPassword))
	mux.HandleFunc("POST /auth/reset-password", limit(c.Auth.ResetPassword))

	// Profiles
	mux.HandleFunc("GET /profiles/me", auth(c.Profile.GetMe))
	mux.HandleFunc("PATCH /profiles/me", auth(c.Profile.UpdateMe))
	mux.HandleFunc("GET /profiles/me/quota", auth(c.Profile.GetQuota))

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))

	// Calendar
	mux.HandleFunc("GET /calendar/day", c.Calendar.Day)
	mux.HandleFunc("GET /calendar/month", c.Calendar.Month)
	mux.HandleFunc("GET /calendar/feed.ics", auth(c.Calendar.Feed))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(cfg.Logger, mux))
}
