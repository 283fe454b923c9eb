// internal/wire/wire.go
package wire

import (
	"net/http"

	"estate-booking/internal/adaptor"
	"estate-booking/internal/data/cache"
	"estate-booking/internal/data/repository"
	"estate-booking/internal/gateway"
	"estate-booking/internal/queue"
	"estate-booking/internal/usecase"
	"estate-booking/pkg/middleware"
	"estate-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface plus the service layer, which the queue
// worker also needs.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes all dependencies
func Wiring(
	repo *repository.Repository,
	drafts cache.DraftStore,
	gw gateway.Client,
	enqueuer queue.Enqueuer,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, drafts, gw, enqueuer, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireBooking(r, handler.Booking, handler.Payment)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
