// Package server boots the application: config, database, cache, storage,
// logging sink, middleware stack, routes, and the HTTP listener.
package server

import (
	"net/http"
	"time"

	"github.com/hbdiaz/ferremat/app/routes"
	"github.com/hbdiaz/ferremat/config"
	"github.com/hbdiaz/ferremat/pkg/cache"
	"github.com/hbdiaz/ferremat/pkg/database"
	"github.com/hbdiaz/ferremat/pkg/logger"
	"github.com/hbdiaz/ferremat/pkg/metrics"
	"github.com/hbdiaz/ferremat/pkg/middleware"
	"github.com/hbdiaz/ferremat/pkg/reqid"
	"github.com/hbdiaz/ferremat/pkg/router"
	"github.com/hbdiaz/ferremat/pkg/storage"
)

// Start runs the boot sequence and blocks serving HTTP.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}

	// Cache and the mongo log sink are optional: a missing redis or mongo
	// just degrades features, it never stops the server.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, cache disabled", "error", err)
	}

	storage.Connect()

	if uri := config.MongoLogURI(); uri != "" {
		h, err := logger.NewMongoHandler(uri, config.MongoLogDatabase(), config.MongoLogCollection())
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			logger.AttachMongoSink(h)
			defer h.Close()
		}
	}

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(300, time.Minute))

	routes.RegisterAPI(r, database.DB)

	addr := ":" + config.AppPort()
	logger.Info("ferremat listening", "addr", addr, "env", config.AppEnv())
	return http.ListenAndServe(addr, r.Handler())
}
