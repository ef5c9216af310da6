package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bot-console/internal/config"
	"bot-console/internal/handler"
	"bot-console/internal/middleware"
	"bot-console/internal/session"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Pages    *handler.PageHandler
	Fragment *handler.FragmentHandler
	Action   *handler.ActionHandler
	WS       *handler.WSHandler
}

func New(cfg *config.Config, sessions *session.Middleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.ActionRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimit.Handler)

	r.Get("/health", handler.Health)
	r.Handle("/static/*", handler.Static())

	r.Get(session.LoginRoute, h.Auth.LoginPage)
	r.Post(session.LoginRoute, h.Auth.Login)

	r.Group(func(private chi.Router) {
		private.Use(sessions.RequireSession)

		private.Post("/logout", h.Auth.Logout)

		private.Get("/", h.Pages.Dashboard)
		private.Get("/groups", h.Pages.Groups)
		private.Get("/users", h.Pages.Users)
		private.Get("/plugins", h.Pages.Plugins)
		private.Get("/logs", h.Pages.Logs)
		private.Get("/system", h.Pages.System)
		private.Post("/system/config", h.Pages.UpdateConfig)

		private.Route("/fragments", func(fragments chi.Router) {
			fragments.Use(middleware.Timeout(cfg.RequestTimeout))
			fragments.Get("/tables/{view}", h.Fragment.Table)
			fragments.Get("/details/groups/{id}", h.Fragment.GroupDetail)
			fragments.Get("/details/groups/{id}/tabs/{tab}", h.Fragment.GroupDetailTab)
			fragments.Delete("/details/groups/{id}", h.Fragment.CloseGroupDetail)
			fragments.Get("/details/users/{id}", h.Fragment.UserDetail)
			fragments.Get("/details/users/{id}/tabs/{tab}", h.Fragment.UserDetailTab)
			fragments.Delete("/details/users/{id}", h.Fragment.CloseUserDetail)
			fragments.Get("/toasts", h.Fragment.Toasts)
			fragments.Delete("/toasts/{id}", h.Fragment.DismissToast)
		})

		private.With(middleware.Timeout(cfg.RequestTimeout)).Post("/actions/{action}", h.Action.Execute)

		// No timeout wrapper here: the upgrade needs the raw connection.
		private.Get("/ws", h.WS.Connect)
	})

	return r
}
