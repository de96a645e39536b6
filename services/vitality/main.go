// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/aggregator"
	"github.com/AleutianAI/vitality/services/analyzer"
	analyzerobs "github.com/AleutianAI/vitality/services/analyzer/observability"
	"github.com/AleutianAI/vitality/services/providers"
	"github.com/AleutianAI/vitality/services/storage"
	"github.com/AleutianAI/vitality/services/vitality/observability"
	"github.com/AleutianAI/vitality/services/vitality/routes"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "vitality-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("vitality-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	port := os.Getenv("VITALITY_PORT")
	if port == "" {
		port = "12300"
	}
	storePath := os.Getenv("VITALITY_STORE_PATH")
	if storePath == "" {
		storePath = "./data/vitality"
	}

	logger := logging.New(logging.Config{Service: "vitality", JSON: true})
	defer logger.Close()

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	apiMetrics := observability.InitMetrics()
	analyzerMetrics := analyzerobs.InitMetrics()

	store, err := storage.Open(storage.DefaultConfig(storePath))
	if err != nil {
		log.Fatalf("failed to open result store at %s: %v", storePath, err)
	}
	defer store.Close()

	applications := providers.NewApplicationProvider(store, logger)
	keywords := providers.NewKeywordProvider(store, logger)
	evolutions := providers.NewEvolutionProvider(store, logger)
	dependencies := providers.NewDependencyProvider(store, logger)
	audits := providers.NewAuditProvider(store, logger)
	faqs := providers.NewFaqProvider(store, logger)
	notifications := providers.NewNotificationProvider(store, logger)

	service := aggregator.NewService(aggregator.Readers{
		Applications: applications,
		Keywords:     keywords,
		Evolutions:   evolutions,
		Dependencies: dependencies,
		Audits:       audits,
	}, logger)

	runner := analyzer.NewRunner(store, analyzer.Writers{
		Keywords:     keywords,
		Evolutions:   evolutions,
		Dependencies: dependencies,
		AuditReports: audits,
	}, analyzer.RunnerConfig{}, logger, analyzerMetrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scheduled analysis and workspace watching are optional: they
	// need a portfolio file.
	if portfolioPath := os.Getenv("VITALITY_PORTFOLIO_PATH"); portfolioPath != "" {
		portfolio, err := analyzer.LoadPortfolio(portfolioPath)
		if err != nil {
			log.Fatalf("failed to load portfolio %s: %v", portfolioPath, err)
		}
		scheduler := analyzer.NewScheduler(runner, analyzer.SchedulerConfig{}, logger)

		interval := 6 * time.Hour
		if raw := os.Getenv("VITALITY_CYCLE_INTERVAL"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				log.Fatalf("invalid VITALITY_CYCLE_INTERVAL %q: %v", raw, err)
			}
			interval = parsed
		}
		go runCycles(ctx, scheduler, portfolio, interval, logger)

		// Workspace changes trigger a full portfolio cycle: per-job
		// collections are rebuilt whole, so a single-application run
		// would drop every other application's records. The buffered
		// channel coalesces triggers that land while a cycle runs.
		cycleRequests := make(chan analyzer.PortfolioEntry, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case entry := <-cycleRequests:
					logger.Info("workspace change detected", "app_id", entry.AppID)
					if _, err := scheduler.RunCycle(ctx, portfolio); err != nil {
						logger.Error("triggered cycle aborted", "error", err)
					}
				}
			}
		}()

		watcher, err := analyzer.NewWatcher(portfolio, analyzer.DefaultDebounce, func(entry analyzer.PortfolioEntry) {
			select {
			case cycleRequests <- entry:
			default:
			}
		}, logger)
		if err != nil {
			logger.Warn("workspace watching disabled", "error", err)
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
		}
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("vitality-service"))
	routes.SetupRoutes(router, routes.Deps{
		Store:         store,
		Aggregator:    service,
		Applications:  applications,
		Faqs:          faqs,
		Notifications: notifications,
		Runner:        runner,
		Metrics:       apiMetrics,
	})

	server := &http.Server{Addr: ":" + port, Handler: router}
	go func() {
		logger.Info("starting the vitality server", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}

// runCycles executes a portfolio cycle immediately and then on every
// interval tick until the context ends.
func runCycles(ctx context.Context, scheduler *analyzer.Scheduler, portfolio *analyzer.Portfolio, interval time.Duration, logger *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		summary, err := scheduler.RunCycle(ctx, portfolio)
		if err != nil {
			logger.Error("portfolio cycle aborted", "error", err)
		} else if !summary.OK() {
			logger.Warn("portfolio cycle finished with failures")
		} else {
			logger.Info("portfolio cycle finished")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
