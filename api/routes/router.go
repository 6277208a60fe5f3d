package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodsupplychain/procurement/api/controllers"
	cartcontrollers "github.com/foodsupplychain/procurement/api/controllers/cart"
	ordercontrollers "github.com/foodsupplychain/procurement/api/controllers/orders"
	"github.com/foodsupplychain/procurement/api/middleware"
	"github.com/foodsupplychain/procurement/internal/cart"
	"github.com/foodsupplychain/procurement/internal/catalog"
	"github.com/foodsupplychain/procurement/internal/orders"
	"github.com/foodsupplychain/procurement/pkg/config"
	"github.com/foodsupplychain/procurement/pkg/enums"
	"github.com/foodsupplychain/procurement/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisPinger controllers.Pinger,
	metricsHandler http.Handler,
	catalogService catalog.Service,
	cartService cart.Service,
	placementService orders.PlacementService,
	historyService orders.HistoryService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisPinger, logg))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleProcurement, logg))

		r.Get("/catalog", controllers.CatalogList(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.Post("/lines", cartcontrollers.CartAddLine(cartService, logg))
			r.Delete("/lines/{index}", cartcontrollers.CartRemoveLine(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.PlaceOrders(placementService, logg))
			r.Get("/", ordercontrollers.OrderHistory(historyService, logg))
		})
	})

	return r
}
