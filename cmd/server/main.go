package main

import (
	"github.com/dream-society/unity-nest/internal/bootstrap"
	"github.com/dream-society/unity-nest/internal/config"
	"github.com/dream-society/unity-nest/internal/server"
	"github.com/dream-society/unity-nest/pkg/database"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.AppEnv == "development" {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db := database.Connect()

	if err := bootstrap.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			logrus.WithError(err).Fatal("failed to seed admin user")
		}
	}

	redisClient := newRedisClient(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)

	logrus.WithField("port", cfg.Port).Info("starting server")
	if err := srv.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server exited with error")
	}
}

func newRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logrus.WithError(err).Fatal("invalid REDIS_URL")
	}

	return redis.NewClient(opts)
}
