package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/rmendiola/belleza/internal/auth"
	"github.com/rmendiola/belleza/internal/handlers"
	"github.com/rmendiola/belleza/internal/middleware"
	"github.com/rmendiola/belleza/internal/models"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	catalogHandler *handlers.CatalogHandler,
	bookingHandler *handlers.BookingHandler,
	tokenManager *auth.TokenManager,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public auth routes, rate limited per IP
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rateLimitConfig))
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/verify-email", authHandler.VerifyEmail)
		r.Post("/auth/verify-email", authHandler.VerifyEmail)
		r.Post("/auth/resend-verification", authHandler.ResendVerification)
		r.Post("/auth/google", authHandler.GoogleSignIn)
	})

	// Public catalog routes
	router.Get("/services", catalogHandler.ListServices)
	router.Get("/services/{id}", catalogHandler.GetService)
	router.Get("/professionals", catalogHandler.ListProfessionals)
	router.Get("/professionals/{id}", catalogHandler.GetProfessional)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Get("/users/me", userHandler.Me)
		r.Post("/users/me", userHandler.UpdateMe)

		r.Get("/bookings", bookingHandler.List)
		r.Post("/bookings", bookingHandler.Create)
		r.Get("/bookings/{id}", bookingHandler.Get)
		r.Delete("/bookings/{id}", bookingHandler.Cancel)

		// Professionals only
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleProfessional))
			r.Get("/professionals/me/bookings", bookingHandler.ListForProfessional)
		})
	})
}
