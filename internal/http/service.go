package http

import (
	"context"
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

	"github.com/minhtran-dev/storefront/internal/catalog"
	"github.com/minhtran-dev/storefront/internal/config"
	"github.com/minhtran-dev/storefront/internal/gateway"
	"github.com/minhtran-dev/storefront/internal/http/metric"
	"github.com/minhtran-dev/storefront/internal/http/middleware"
	"github.com/minhtran-dev/storefront/internal/http/swagger"
	"github.com/minhtran-dev/storefront/internal/service"
	"github.com/minhtran-dev/storefront/internal/storage/db"
	"github.com/minhtran-dev/storefront/internal/workflow"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	uploadCfg config.Upload
	logger    *slog.Logger
	metrics   *metric.Metrics

	catalogSvc catalog.Service
	productSvc service.ProductService
	uploader   gateway.Uploader
	wf         *workflow.Workflow
	health     db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	uploadCfg config.Upload,
	log *slog.Logger,
	catalogSvc catalog.Service,
	productSvc service.ProductService,
	uploader gateway.Uploader,
	wf *workflow.Workflow,
	health db.HealthChecker,
) *Service {
	return &Service{
		cfg:        cfg,
		uploadCfg:  uploadCfg,
		logger:     log.With(slog.String("service", "http")),
		metrics:    metric.New(),
		catalogSvc: catalogSvc,
		productSvc: productSvc,
		uploader:   uploader,
		wf:         wf,
		health:     health,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
	products := newProductHandler(s.logger, s.catalogSvc, s.productSvc)
	uploads := newUploadHandler(s.logger, s.uploader, s.uploadCfg.MaxFileSize)
	submissions := newSubmissionHandler(s.logger, s.wf, s.uploadCfg.MaxFileSize)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.listProducts)
		r.Post("/", products.createProduct)
		r.Post("/submissions", submissions.createSubmission)
		r.Get("/{id}", products.getProduct)
	})

	r.Post("/upload", uploads.uploadImage)

	r.Get("/healthz", s.handleHealth)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if ok, err := s.health.IsHealthy(r.Context()); !ok {
			writeError(w, r, s.logger, err)
			return
		}
	}

	writeJSON(w, r, s.logger, http.StatusOK, dataResponse{Success: true, Data: "ok"})
}
