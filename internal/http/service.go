package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/brewery-api/internal/config"
	"github.com/tuanvumaihuynh/brewery-api/internal/http/apierr"
	"github.com/tuanvumaihuynh/brewery-api/internal/http/metric"
	"github.com/tuanvumaihuynh/brewery-api/internal/http/middleware"
	"github.com/tuanvumaihuynh/brewery-api/internal/http/swagger"
	"github.com/tuanvumaihuynh/brewery-api/internal/service"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
	"github.com/tuanvumaihuynh/brewery-api/pkg/validator"
)

const (
	CustomerPath = "/api/v2/customer"
	BeerPath     = "/api/v2/beer"
	HealthPath   = "/healthz"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator.Validator

	customerSvc   service.CustomerService
	beerSvc       service.BeerService
	healthChecker db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	validator validator.Validator,
	customerSvc service.CustomerService,
	beerSvc service.BeerService,
	healthChecker db.HealthChecker,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        log.With(slog.String("service", "http")),
		metrics:       metric.New(),
		validator:     validator,
		customerSvc:   customerSvc,
		beerSvc:       beerSvc,
		healthChecker: healthChecker,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Router())
}

// Router builds the fully wired handler tree.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	customer := newCustomerHandler(s.customerSvc, s.validator)
	r.Route(CustomerPath, func(r chi.Router) {
		r.Get("/", s.handle(customer.ListCustomers))
		r.Post("/", s.handle(customer.CreateCustomer))
		r.Get("/{customerId}", s.handle(customer.GetCustomerByID))
		r.Put("/{customerId}", s.handle(customer.UpdateCustomer))
		r.Patch("/{customerId}", s.handle(customer.PatchCustomer))
		r.Delete("/{customerId}", s.handle(customer.DeleteCustomer))
	})

	beer := newBeerHandler(s.beerSvc, s.validator)
	r.Route(BeerPath, func(r chi.Router) {
		r.Get("/", s.handle(beer.ListBeers))
		r.Post("/", s.handle(beer.CreateBeer))
		r.Get("/{beerId}", s.handle(beer.GetBeerByID))
		r.Put("/{beerId}", s.handle(beer.UpdateBeer))
		r.Patch("/{beerId}", s.handle(beer.PatchBeer))
		r.Delete("/{beerId}", s.handle(beer.DeleteBeer))
	})

	r.Get(HealthPath, s.handle(newHealthHandler(s.healthChecker).Health))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// handlerFunc is an http.HandlerFunc that reports failures instead of
// writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	// Missing resources are reported by status alone.
	if res.StatusCode == http.StatusNotFound {
		w.WriteHeader(res.StatusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
