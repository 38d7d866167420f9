package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foguel/delivery-backend/api/controllers"
	"github.com/foguel/delivery-backend/api/middleware"
	"github.com/foguel/delivery-backend/internal/activity"
	"github.com/foguel/delivery-backend/internal/auth"
	"github.com/foguel/delivery-backend/internal/clients"
	"github.com/foguel/delivery-backend/internal/collaborators"
	"github.com/foguel/delivery-backend/internal/deliveries"
	"github.com/foguel/delivery-backend/internal/products"
	routesvc "github.com/foguel/delivery-backend/internal/routes"
	"github.com/foguel/delivery-backend/pkg/auth/session"
	"github.com/foguel/delivery-backend/pkg/config"
	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/logger"
	"github.com/foguel/delivery-backend/pkg/metrics"
)

// rateLimitStore is the redis surface used by the login throttle.
type rateLimitStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Services bundles the domain services mounted on the router.
type Services struct {
	Auth          auth.Service
	Collaborators collaborators.Service
	Clients       clients.Service
	Products      products.Service
	Routes        routesvc.Service
	Deliveries    deliveries.Service
	Activity      activity.Service
}

// Infra carries the shared plumbing the router needs besides the services.
type Infra struct {
	Sessions    session.Checker
	RateLimiter rateLimitStore
	Pingers     map[string]controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, infra.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
	)
	limiter := middleware.AuthRateLimit(loginPolicy, infra.RateLimiter, logg)

	authenticated := middleware.Auth(cfg.JWT, infra.Sessions, logg)
	adminOnly := middleware.RequireRole(logg, enums.RoleAdmin)

	r.Get("/", controllers.Root(cfg.App.Env))
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, infra.Pingers))
	})
	if infra.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/login", func(r chi.Router) {
		r.With(limiter).Post("/login-admin", controllers.AdminLogin(svc.Auth, logg))
		r.With(limiter).Post("/login", controllers.CollaboratorLogin(svc.Auth, logg))
		r.Get("/list-users", controllers.ListLoginUsers(svc.Auth, logg))
		r.With(authenticated).Post("/logout", controllers.Logout(svc.Auth, logg))
	})

	r.Route("/delivery", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleCollaborator))
		r.Get("/today/{colaborador_id}", controllers.TodayDeliveries(svc.Deliveries, logg))
		r.Get("/details/{id}", controllers.DeliveryDetails(svc.Deliveries, logg))
		r.Get("/stats/{colaborador_id}", controllers.DeliveryStats(svc.Deliveries, logg))
		r.Post("/arrival/{id}", controllers.RegisterArrival(svc.Deliveries, logg))
		r.Post("/cancel-arrival/{id}", controllers.CancelArrival(svc.Deliveries, logg))
		r.Post("/finish-success/{id}", controllers.FinishDeliverySuccess(svc.Deliveries, logg))
		r.Post("/finish-failure/{id}", controllers.FinishDeliveryFailure(svc.Deliveries, logg))
		r.Put("/update-waiting/{id}", controllers.UpdateWaiting(svc.Deliveries, logg))
	})

	r.Route("/register", func(r chi.Router) {
		r.Use(authenticated, adminOnly)
		mountRegister(r, "/colaboradores", "/produtos", "/clientes", svc, logg)
		mountRegister(r, "/collaborators", "/products", "/clients", svc, logg)
		r.Get("/all", controllers.RegisterAll(svc.Collaborators, svc.Products, svc.Clients, logg))
	})

	r.Route("/routes", func(r chi.Router) {
		r.Use(authenticated, adminOnly)
		r.Post("/", controllers.CreateRoute(svc.Routes, logg))
		r.Get("/", controllers.RouteBoard(svc.Routes, logg))
		r.Get("/recent", controllers.RecentRoutes(svc.Routes, logg))
		r.Get("/analytics", controllers.RouteAnalytics(svc.Routes, logg))
		r.Get("/analytics/export", controllers.ExportRouteAnalytics(svc.Routes, logg))
		r.Get("/{id}", controllers.GetRoute(svc.Routes, logg))
		r.Put("/{id}", controllers.UpdateRoute(svc.Routes, logg))
		r.Delete("/{id}", controllers.DeleteRoute(svc.Routes, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated, adminOnly)
		r.Get("/activity", controllers.ActivityFeed(svc.Activity, cfg.Activity.FeedLimit, logg))
		r.Get("/dashboard/stats", controllers.DashboardStats(svc.Activity, logg))
	})

	return r
}

// mountRegister wires the CRUD endpoints of the three catalogs under the given paths.
func mountRegister(r chi.Router, collaboratorsPath, productsPath, clientsPath string, svc Services, logg *logger.Logger) {
	r.Route(collaboratorsPath, func(r chi.Router) {
		r.Post("/", controllers.CreateCollaborator(svc.Collaborators, logg))
		r.Get("/", controllers.ListCollaborators(svc.Collaborators, logg))
		r.Put("/{id}", controllers.UpdateCollaborator(svc.Collaborators, logg))
		r.Delete("/{id}", controllers.DeleteCollaborator(svc.Collaborators, logg))
	})
	r.Route(productsPath, func(r chi.Router) {
		r.Post("/", controllers.CreateProduct(svc.Products, logg))
		r.Get("/", controllers.ListProducts(svc.Products, logg))
		r.Put("/{id}", controllers.UpdateProduct(svc.Products, logg))
		r.Delete("/{id}", controllers.DeleteProduct(svc.Products, logg))
	})
	r.Route(clientsPath, func(r chi.Router) {
		r.Post("/", controllers.CreateClient(svc.Clients, logg))
		r.Get("/", controllers.ListClients(svc.Clients, logg))
		r.Put("/{id}", controllers.UpdateClient(svc.Clients, logg))
		r.Delete("/{id}", controllers.DeleteClient(svc.Clients, logg))
	})
}
