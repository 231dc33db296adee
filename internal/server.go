package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/healthyduck/fitnessapi/internal/aggregation"
	"github.com/healthyduck/fitnessapi/internal/auth"
	"github.com/healthyduck/fitnessapi/internal/config"
	"github.com/healthyduck/fitnessapi/internal/datapoint"
	"github.com/healthyduck/fitnessapi/internal/datasource"
	"github.com/healthyduck/fitnessapi/internal/db"
	"github.com/healthyduck/fitnessapi/internal/middleware"
	"github.com/healthyduck/fitnessapi/internal/profile"
	"github.com/healthyduck/fitnessapi/internal/session"
	"github.com/healthyduck/fitnessapi/internal/telemetry/metrics"
	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"
	"github.com/healthyduck/fitnessapi/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

const apiBasePath = "/api/fitness/v1"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient      *redis.Client
	identityProvider *auth.Provider

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitnessapi", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitness-api")
	if err != nil {
		return nil, err
	}

	return &Server{
		config:           params.Config,
		dbPool:           dbPool,
		versionInfo:      params.VersionInfo,
		redisClient:      rdb,
		identityProvider: auth.NewProvider(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitness-api-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "quack")
	}).Methods("GET").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	api := r.PathPrefix(apiBasePath).Subrouter()

	sourcesRepo := datasource.NewRepo(s.dbPool)
	sourcesHandler := datasource.NewHandler(sourcesRepo)
	api.HandleFunc("/users/{userId}/dataSources", sourcesHandler.HandleList).
		Methods("GET", "OPTIONS").Name("list-data-sources")
	api.HandleFunc("/users/{userId}/dataSources", sourcesHandler.HandleAdd).
		Methods("POST", "OPTIONS").Name("new-data-source")
	api.HandleFunc("/users/{userId}/dataSources/{dataSourceId}", sourcesHandler.HandleGet).
		Methods("GET", "OPTIONS").Name("get-data-source")
	api.HandleFunc("/users/{userId}/dataSources/{dataSourceId}", sourcesHandler.HandleDelete).
		Methods("DELETE", "OPTIONS").Name("delete-data-source")

	pointsRepo := datapoint.NewRepo(s.dbPool)
	pointsHandler := datapoint.NewHandler(pointsRepo, sourcesRepo, s.metricsManager)
	datasetPath := "/users/{userId}/dataSources/{dataSourceId}/datasets/{datasetId}"
	api.HandleFunc(datasetPath, pointsHandler.HandleGetDataset).
		Methods("GET", "OPTIONS").Name("get-dataset")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	patchDatasetLimit := middleware.RateLimit(
		reqRateLimiter,
		"patch-dataset",
		s.config.DatasetRateLimitAllowedPerMin,
		s.metricsManager,
	)
	api.Handle(datasetPath, patchDatasetLimit(http.HandlerFunc(pointsHandler.HandlePatchDataset))).
		Methods("PATCH", "OPTIONS").Name("patch-dataset")

	sessionsRepo := session.NewRepo(s.dbPool)
	sessionsHandler := session.NewHandler(sessionsRepo, s.metricsManager)
	api.HandleFunc("/users/{userId}/sessions", sessionsHandler.HandleList).
		Methods("GET", "OPTIONS").Name("list-sessions")
	api.HandleFunc("/users/{userId}/sessions", sessionsHandler.HandleAdd).
		Methods("POST", "OPTIONS").Name("new-session")
	api.HandleFunc("/users/{userId}/sessions/{sessionId}", sessionsHandler.HandleGet).
		Methods("GET", "OPTIONS").Name("get-session")
	api.HandleFunc("/users/{userId}/sessions/{sessionId}", sessionsHandler.HandleUpdate).
		Methods("PUT", "OPTIONS").Name("update-session")
	api.HandleFunc("/users/{userId}/sessions/{sessionId}", sessionsHandler.HandleDelete).
		Methods("DELETE", "OPTIONS").Name("delete-session")

	aggregationHandler := aggregation.NewHandler(pointsRepo, s.metricsManager)
	api.HandleFunc("/users/{userId}/dataset/aggregate", aggregationHandler.HandleAggregate).
		Methods("POST", "OPTIONS").Name("aggregate")
	api.HandleFunc("/users/{userId}/dataset/aggregate/daily", aggregationHandler.HandleAggregateDaily).
		Methods("GET", "OPTIONS").Name("aggregate-daily")

	profileHandler := profile.NewHandler(
		profile.NewRepo(s.dbPool),
		sourcesRepo, pointsRepo, sessionsRepo,
	)
	api.HandleFunc("/users/{userId}/profile", profileHandler.HandleGet).
		Methods("GET", "OPTIONS").Name("get-profile")
	api.HandleFunc("/users/{userId}/profile", profileHandler.HandleUpdate).
		Methods("PUT", "OPTIONS").Name("update-profile")

	// all the rest - unhandled paths
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.identityProvider)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("fitness api, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Sub(1)
	}
}
