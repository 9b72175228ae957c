// Package main is the entry point for the job bank API server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/dev-olayemi/jobbank/internal/api"
	"github.com/dev-olayemi/jobbank/internal/auth"
	"github.com/dev-olayemi/jobbank/internal/config"
	"github.com/dev-olayemi/jobbank/internal/directory"
	"github.com/dev-olayemi/jobbank/internal/graph"
	"github.com/dev-olayemi/jobbank/internal/health"
	"github.com/dev-olayemi/jobbank/internal/job"
	"github.com/dev-olayemi/jobbank/internal/middleware"
	"github.com/dev-olayemi/jobbank/internal/person"
	"github.com/dev-olayemi/jobbank/internal/post"
	"github.com/dev-olayemi/jobbank/internal/ranking"
	"github.com/dev-olayemi/jobbank/internal/tracing"
)

const serviceName = "jobbank-api"

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Job Bank API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	provider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingExporter,
		OTLPEndpoint: cfg.TracingEndpoint,
		SamplingRate: cfg.TracingSamplingRate,
		InsecureMode: cfg.TracingInsecure,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("failed to shut down tracing", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register HTTP metrics", "error", err)
		os.Exit(1)
	}
	rankMetrics := ranking.NewMetrics()
	if err := rankMetrics.Register(registry); err != nil {
		logger.Error("failed to register ranking metrics", "error", err)
		os.Exit(1)
	}

	// Candidate sources: Postgres when configured, in-memory otherwise.
	var (
		jobs      job.JobRepository
		people    person.PersonRepository
		posts     post.PostRepository
		dbChecker api.HealthChecker
	)
	userDir := directory.NewInMemoryDirectory()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		jobs = job.NewPostgresJobRepository(db)
		people = person.NewPostgresPersonRepository(db)
		posts = post.NewPostgresPostRepository(db)
		dbChecker = health.NewDBChecker(db)
		logger.Info("using postgres candidate sources")
	} else {
		jobs = job.NewInMemoryJobRepository()
		people = person.NewInMemoryPersonRepository()
		posts = post.NewInMemoryPostRepository()
		logger.Info("using in-memory candidate sources")
	}

	// Connection graph store: Redis when configured, in-memory otherwise.
	var (
		connStore    graph.ConnectionStore
		redisChecker api.HealthChecker
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		connStore = graph.NewRedisConnectionStore(redisClient)
		redisChecker = health.NewRedisChecker(redisClient)
		logger.Info("using redis connection store", "addr", cfg.RedisAddr)
	} else {
		connStore = graph.NewInMemoryConnectionStore()
		logger.Info("using in-memory connection store")
	}

	weights := ranking.DefaultWeights()
	if cfg.RankingCalibrationPath != "" {
		weights, err = ranking.LoadCalibration(cfg.RankingCalibrationPath)
		if err != nil {
			logger.Error("failed to load ranking calibration", "error", err, "path", cfg.RankingCalibrationPath)
			os.Exit(1)
		}
		logger.Info("loaded ranking calibration", "path", cfg.RankingCalibrationPath)
	}

	engine := ranking.NewEngine(weights,
		ranking.WithGraphSource(graph.NewExpander(connStore)),
		ranking.WithParallelism(cfg.RankParallelism),
		ranking.WithMetrics(rankMetrics),
		ranking.WithTracer(provider.Tracer("jobbank/ranking")),
	)

	var jwtService *auth.JWTService
	if cfg.JWTPreviousSecret != "" {
		jwtService = auth.NewJWTServiceWithRotation(cfg.JWTSecret, cfg.JWTPreviousSecret)
	} else {
		jwtService = auth.NewJWTService(cfg.JWTSecret)
	}

	recommendations := api.NewRecommendationHandlers(engine, jobs, people, posts, userDir,
		time.Duration(cfg.FeedWindowHours)*time.Hour)
	jobHandlers := api.NewJobHandlers(jobs)
	postHandlers := api.NewPostHandlers(posts)
	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		DBChecker:    dbChecker,
		RedisChecker: redisChecker,
	})

	rateStore := middleware.NewInMemoryRateLimitStore()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rateStore.Cleanup()
		}
	}()
	globalLimit := middleware.RateLimiter(rateStore, middleware.DefaultGlobalLimit(), middleware.IPKeyFunc())
	rankedLimit := middleware.RateLimiter(rateStore, middleware.DefaultRecommendationLimit(), middleware.UserKeyFunc())
	authenticate := middleware.Authenticate(jwtService)

	protected := func(h http.HandlerFunc) http.Handler {
		return authenticate(h)
	}
	ranked := func(h http.HandlerFunc) http.Handler {
		return authenticate(rankedLimit(h))
	}

	mux := http.NewServeMux()
	mux.Handle("/recommendations/jobs", ranked(recommendations.JobRecommendations))
	mux.Handle("/suggestions/people", ranked(recommendations.PeopleSuggestions))
	mux.Handle("/feed", ranked(recommendations.Feed))

	mux.Handle("/jobs", protected(jobHandlers.CreateJob))
	mux.Handle("/jobs/", protected(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			jobHandlers.GetJob(w, r)
		case r.Method == http.MethodDelete:
			jobHandlers.CloseJob(w, r)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/view"):
			jobHandlers.RecordView(w, r)
		default:
			api.WriteError(w, r.Context(), http.StatusMethodNotAllowed, api.ErrCodeBadRequest, "Method not allowed")
		}
	}))

	mux.Handle("/posts", protected(postHandlers.CreatePost))
	mux.Handle("/posts/", protected(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			postHandlers.GetPost(w, r)
		case r.Method == http.MethodDelete:
			postHandlers.DeletePost(w, r)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/like"):
			postHandlers.LikePost(w, r)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/comment"):
			postHandlers.CommentPost(w, r)
		default:
			api.WriteError(w, r.Context(), http.StatusMethodNotAllowed, api.ErrCodeBadRequest, "Method not allowed")
		}
	}))

	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			api.WriteError(w, r.Context(), http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"jobbank-api","version":"0.1.0"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	// Middleware chain, outermost first:
	// RequestID -> Tracing -> HTTPMetrics -> Logging -> global rate limit -> mux.
	var handler http.Handler = globalLimit(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.HTTPMetrics(httpMetrics)(handler)
	handler = middleware.Tracing(serviceName)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
