// Package router sets up all HTTP routes and middleware chains. Routes
// are organized into public, auth and admin groups with appropriate
// middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
)

// New creates and returns the configured chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, admin *handlers.Admin, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Public site.
	r.Get("/", public.Home)
	r.Get("/uploads/{filename}", public.Uploads)

	// Auth routes — CSRF-protected, mostly accessible without a session.
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.Get("/register", auth.RegisterPage)
		r.Post("/register", auth.RegisterSubmit)
		r.Get("/login", auth.LoginPage)
		r.Post("/login", auth.LoginSubmit)
		r.Get("/logout", auth.Logout)
		r.Post("/logout", auth.Logout)

		// 2FA verification — a session exists but 2FA isn't complete yet.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePending2FA)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// 2FA enrollment — only for fully authenticated accounts.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Post("/2fa/setup", auth.TwoFASetupSubmit)
		})
	})

	// Admin area — authenticated, CSRF-protected.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)

		r.Get("/", admin.Dashboard)
		r.Post("/create", admin.ContentCreate)

		// Update and delete are restricted to the master role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMaster)
			r.Post("/update/{id}", admin.ContentUpdate)
			r.Post("/delete/{id}", admin.ContentDelete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
