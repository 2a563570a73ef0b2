package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/PratikDhanave/ga-hit-relay/internal/collector"
	"github.com/PratikDhanave/ga-hit-relay/internal/config"
	"github.com/PratikDhanave/ga-hit-relay/internal/handlers"
	"github.com/PratikDhanave/ga-hit-relay/internal/httpserver"
	"github.com/PratikDhanave/ga-hit-relay/internal/logger"
	"github.com/PratikDhanave/ga-hit-relay/internal/store"
)

const readHeaderTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

// run boots the relay: config → logger → optional delivery log → HTTP server.
func run() int {
	// Load runtime config from environment (tracking IDs, endpoint flags, API_KEYS).
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.LogLevel, cfg.EnvironmentType != "live")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if cfg.InsecureSkipVerify {
		log.Warn("TLS verification disabled for collect requests",
			zap.String("collect_base_url", cfg.CollectBaseURL),
		)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := collector.New(collector.Config{
		Property:           cfg.Property(),
		BaseURL:            cfg.CollectBaseURL,
		UseTestingEndpoint: cfg.UseTestingEndpoint,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Timeout:            cfg.CollectTimeout,
	},
		collector.WithLogger(log.Named("collector")),
		collector.WithMetrics(collector.NewMetrics(reg)),
	)

	deps := httpserver.Deps{
		APIKeys: cfg.APIKeys,
		Hits: handlers.HitRoutes{
			Sender:            client,
			Log:               log.Named("hits"),
			ExposeDiagnostics: cfg.UseTestingEndpoint,
		},
		Gatherer: reg,
	}

	// The delivery log is optional; hits are relayed without it.
	if cfg.DBURL != "" {
		db, err := store.NewPostgresStore(cfg.DBURL)
		if err != nil {
			log.Error("Failed to connect to database", zap.Error(err))
			return 1
		}
		defer db.Close()

		if err := db.EnsureSchema(); err != nil {
			log.Error("Failed to apply schema", zap.Error(err))
			return 1
		}
		log.Info("Delivery log connected")

		deps.DB = db
		deps.Hits.Deliveries = db
		deps.Counter = db
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpserver.NewRouter(deps),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	log.Info("server started",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("endpoint", client.Endpoint()),
		zap.String("environment", cfg.EnvironmentType),
	)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("Server error", zap.Error(err))
		return 1
	}
	return 0
}
