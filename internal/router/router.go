package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sewadar-registry/internal/config"
	"sewadar-registry/internal/handler"
	"sewadar-registry/internal/middleware"
	"sewadar-registry/internal/model"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Sewadar *handler.SewadarHandler
	Audit   *handler.AuditHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	requireAuth := authMiddleware.RequireAuth
	canEdit := authMiddleware.RequireRoles(model.EditorRoles...)
	isAdmin := authMiddleware.RequireRoles(model.AdminRoles...)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.With(requireAuth, isAdmin).Post("/register", h.Auth.Register)
			auth.With(requireAuth).Post("/logout", h.Auth.Logout)
			auth.With(requireAuth).Get("/me", h.Auth.Me)
			auth.With(requireAuth).Put("/password", h.Auth.ChangePassword)
		})

		api.Route("/sewadars", func(sewadars chi.Router) {
			sewadars.With(requireAuth).Get("/", h.Sewadar.List)
			sewadars.With(requireAuth).Get("/{sewadar_id}", h.Sewadar.Get)
			sewadars.With(requireAuth, canEdit).Post("/", h.Sewadar.Create)
			sewadars.With(requireAuth, canEdit).Put("/{sewadar_id}", h.Sewadar.Update)
			sewadars.With(requireAuth, isAdmin).Delete("/{sewadar_id}", h.Sewadar.Delete)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(requireAuth, isAdmin)
			users.Get("/", h.User.List)
			users.Put("/{user_id}", h.User.Update)
			users.Delete("/{user_id}", h.User.Delete)
			users.Post("/{user_id}/password", h.User.ResetPassword)
		})

		api.With(requireAuth, isAdmin).Get("/audit", h.Audit.List)
	})

	return r
}
