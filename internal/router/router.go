package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/harshk49/notes-app-backend/internal/config"
	"github.com/harshk49/notes-app-backend/internal/handler"
	"github.com/harshk49/notes-app-backend/internal/middleware"
)

// Register wires every route of the API onto the provided Echo instance.
// The account endpoints (create-account, login) and the health check are
// public; everything touching notes or the current user sits behind the
// bearer-token middleware.
//
// The rate limiter is applied per group, not on the Echo instance: on the
// protected group it runs after RequireAuth so its key sees the bound
// user id, while public routes get an ip-keyed bucket (no identity exists
// there yet). The response cache wraps only the protected group. All three
// middlewares turn into no-ops when rdb is nil.
func Register(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, n *handler.NoteHandler, rdb *redis.Client) {
	rlCfg := config.LoadRateLimitConfig()

	// Public surface: identity never exists here, so key the bucket by ip.
	ipCfg := rlCfg
	ipCfg.KeyStrategy = "ip_route"
	pub := e.Group("")
	pub.Use(middleware.NewTokenBucket(ipCfg, rdb))

	// Health check for load balancers and monitoring.
	pub.GET("/healthz", handler.Health)

	// Account endpoints that mint tokens; no auth required.
	pub.POST("/create-account", a.CreateAccount)
	pub.POST("/login", a.Login)

	// Everything below requires a verified bearer token. RequireAuth comes
	// first so the limiter and the cache both key on the bound user id.
	auth := e.Group("")
	auth.Use(middleware.RequireAuth(cfg.JWTSecret))
	auth.Use(middleware.NewTokenBucket(rlCfg, rdb))
	auth.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	auth.GET("/get-user", a.GetUser)

	auth.POST("/add-note", n.AddNote)
	auth.PUT("/edit-note/:noteId", n.EditNote)
	auth.GET("/get-all-notes", n.GetAllNotes)
	auth.DELETE("/delete-note/:noteId", n.DeleteNote)
	auth.PUT("/update-note-pinned/:noteId", n.UpdateNotePinned)
	auth.GET("/search-notes", n.SearchNotes)
}
