// Package main runs the EEG dashboard gateway: HTTP API, live acquisition
// WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/neurales/dashboard/config"
	"github.com/neurales/dashboard/internal/acquisition"
	"github.com/neurales/dashboard/internal/auth"
	"github.com/neurales/dashboard/internal/devices"
	"github.com/neurales/dashboard/internal/middleware"
	"github.com/neurales/dashboard/internal/patients"
	"github.com/neurales/dashboard/internal/realtime"
	"github.com/neurales/dashboard/internal/results"
	"github.com/neurales/dashboard/internal/upstream"
	"github.com/neurales/dashboard/pkg/logger"
	"github.com/neurales/dashboard/pkg/metrics"
	"github.com/neurales/dashboard/pkg/redis"
	"github.com/neurales/dashboard/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{FilePath: cfg.Log.FilePath, Production: cfg.Log.IsProduction()})
	defer log.Sync()

	ctx := context.Background()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	api := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.APIBaseURL,
		Timeout: cfg.Upstream.Timeout(),
		Logger:  log.Named("upstream"),
	})

	// Auth
	authRepo := auth.NewRepository(api)
	session := auth.NewSession(authRepo, api, log.Named("auth"))
	session.Initialize(ctx)
	authHandler := auth.NewHandler(session, log)

	// Records
	ttl := cfg.Records.CacheTTL()
	patientStore := patients.NewStore(patients.NewRepository(api), ttl, log.Named("patients"))
	patientHandler := patients.NewHandler(patientStore)
	deviceStore := devices.NewStore(devices.NewRepository(api), ttl, log.Named("devices"))
	deviceHandler := devices.NewHandler(deviceStore)
	resultStore := results.NewStore(results.NewRepository(api), ttl, log.Named("results"))
	resultHandler := results.NewHandler(resultStore)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	streamMetrics := metrics.NewStream(registry)

	// Acquisition
	store := acquisition.NewStore(acquisition.Options{
		StreamURL: cfg.Upstream.StreamURL(),
		Dialer:    acquisition.NewWebsocketDialer(cfg.Upstream.HandshakeTimeout(), nil),
		Backend:   api,
		Metrics:   streamMetrics,
		Logger:    log.Named("acquisition"),

		NotifyTimeout: cfg.Upstream.Timeout(),
	})
	acquisitionHandler := acquisition.NewHandler(store, api)

	var hub *realtime.Hub
	if rdb != nil {
		bridge := realtime.NewRedisPubSub(rdb.Client, cfg.Redis.Channel, log.Named("redis"))
		hub = realtime.NewHub(store, log.Named("hub"), bridge, bridge)
	} else {
		hub = realtime.NewHub(store, log.Named("hub"), nil, nil)
	}
	if err := hub.Run(); err != nil {
		log.Fatal("hub", zap.Error(err))
	}
	store.Subscribe(hub.OnState)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(log))

	// Health
	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{
			"status":    "ok",
			"redis":     rdb.Health(c.Request.Context()),
			"logged_in": session.IsLogged(),
			"clients":   hub.ClientCount(),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	// Auth (public)
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", authHandler.Me)
	}

	// Protected API (signed-in gateway session required)
	protected := router.Group("/api")
	protected.Use(middleware.RequireLogin(session))
	{
		// Patients
		protected.GET("/patients", patientHandler.List)
		protected.POST("/patients", patientHandler.Create)
		protected.GET("/patients/status", patientHandler.Status)
		protected.GET("/patients/meta/services", patientHandler.Services)
		protected.GET("/patients/meta/medecins", patientHandler.Doctors)
		protected.GET("/patients/:id", patientHandler.GetByID)
		protected.PUT("/patients/:id", patientHandler.Update)
		protected.DELETE("/patients/:id", patientHandler.Delete)

		// Devices
		protected.GET("/devices", deviceHandler.List)
		protected.POST("/devices", deviceHandler.Create)
		protected.GET("/devices/status", deviceHandler.Status)
		protected.GET("/devices/:id", deviceHandler.GetByID)
		protected.PUT("/devices/:id", deviceHandler.Update)
		protected.DELETE("/devices/:id", deviceHandler.Delete)

		// Results
		protected.GET("/results", resultHandler.List)
		protected.POST("/results", resultHandler.Create)
		protected.GET("/results/status", resultHandler.Status)
		protected.GET("/results/:id", resultHandler.GetByID)
		protected.PUT("/results/:id", resultHandler.Update)
		protected.DELETE("/results/:id", resultHandler.Delete)
		protected.GET("/results/:id/quality", resultHandler.Analytics(results.AnalysisQuality))
		protected.GET("/results/:id/fatigue-score", resultHandler.Analytics(results.AnalysisFatigue))
		protected.GET("/results/:id/eeg", resultHandler.Analytics(results.AnalysisEEG))

		// Acquisition
		protected.GET("/electrodes", acquisitionHandler.Electrodes)
		protected.GET("/acquisition/state", acquisitionHandler.State)
		protected.POST("/acquisition/start", acquisitionHandler.Start)
		protected.POST("/acquisition/stop", acquisitionHandler.Stop)
		protected.GET("/acquisition/live", acquisitionHandler.Live)
		protected.POST("/acquisition/electrodes/toggle", acquisitionHandler.Toggle)
		protected.PUT("/acquisition/electrodes", acquisitionHandler.SetElectrodes)
		protected.DELETE("/acquisition/electrodes", acquisitionHandler.ClearElectrodes)
	}

	// WebSocket (live acquisition state and commands)
	router.GET("/ws", middleware.RequireLogin(session), realtime.ServeWs(hub, log))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("stream", store.Engine().URL()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	store.Stop(shutdownCtx)
	store.Close()
	hub.Close()
	log.Info("server stopped")
}
