package main // Entry point package

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/harshk49/notes-app-backend/internal/config"
	"github.com/harshk49/notes-app-backend/internal/database"
	"github.com/harshk49/notes-app-backend/internal/handler"
	"github.com/harshk49/notes-app-backend/internal/logger"
	"github.com/harshk49/notes-app-backend/internal/queue"
	"github.com/harshk49/notes-app-backend/internal/repository"
	"github.com/harshk49/notes-app-backend/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	logger.Init()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Sugar.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; caching and rate limiting disable themselves when nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Sugar.Warn("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	notes := repository.NewNoteRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	noteHandler := handler.NewNoteHandler(notes, cfg.AMQPURL)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS()) // reference surface allows any origin

	router.Register(e, cfg, authHandler, noteHandler, rdb)

	// Background consumer writing the note activity trail; reconnects on its own.
	go func() {
		if err := queue.StartActivityConsumer(cfg.AMQPURL); err != nil {
			logger.Sugar.Warnf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	logger.Sugar.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		logger.Sugar.Fatalf("server: %v", err)
	}
}
