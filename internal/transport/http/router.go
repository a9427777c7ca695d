package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	areaapp "github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/area"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/auth"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/security"
	tokenapp "github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/token"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/config"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/infrastructure/dynamo"
	jwtinfra "github.com/mvbri/sistema-gestion-soporte-sub000/internal/infrastructure/jwt"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/infrastructure/smtp"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/infrastructure/sns"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/transport/http/handler"
	appmiddleware "github.com/mvbri/sistema-gestion-soporte-sub000/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	TokenRepo   *dynamo.TokenRepo
	AreaRepo    *dynamo.AreaRepo
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
	// BaseURL is the public URL prefix embedded in verification links.
	BaseURL string
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	issuer := tokenapp.NewIssuer(tokenapp.IssuerDeps{
		TokenRepo:      deps.TokenRepo,
		VerifyTokenTTL: cfg.VerifyTokenTTL,
		ResetTokenTTL:  cfg.ResetTokenTTL,
		Cooldown:       cfg.ResendCooldown,
	})
	questions := security.NewVerifier(deps.UserRepo, issuer)
	authDeps := auth.ServiceDeps{
		UserRepo:  deps.UserRepo,
		AreaRepo:  deps.AreaRepo,
		Issuer:    issuer,
		Questions: questions,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
		BaseURL:   deps.BaseURL,
	}
	if deps.JWTProvider != nil {
		authDeps.Signer = deps.JWTProvider
	}
	authSvc := auth.NewService(authDeps)
	areaSvc := areaapp.NewService(deps.AreaRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	areaH := handler.NewAreaHandler(areaSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.Get("/areas", areaH.List)

		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Get("/auth/verify-email", authH.VerifyEmail)
		r.With(sensitiveRL.Limit).Post("/auth/resend-verification", authH.ResendVerification)
		r.With(sensitiveRL.Limit).Post("/auth/request-password-recovery", authH.RequestPasswordRecovery)
		r.With(sensitiveRL.Limit).Post("/auth/get-security-questions", authH.GetSecurityQuestions)
		r.With(sensitiveRL.Limit).Post("/auth/verify-security-answers", authH.VerifySecurityAnswers)
		r.With(sensitiveRL.Limit).Post("/auth/reset-password", authH.ResetPassword)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/auth/current-user", authH.CurrentUser)
			r.Put("/auth/profile", authH.UpdateProfile)
			r.Put("/auth/security-questions", authH.SetSecurityQuestions)

			r.Get("/areas/{id}", areaH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/areas", areaH.Create)
				r.Put("/areas/{id}", areaH.Update)
				r.Delete("/areas/{id}", areaH.Delete)
			})
		})
	})

	return r
}
