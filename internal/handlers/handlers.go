package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	surrealdb "github.com/surrealdb/surrealdb.go"

	"technotes/api/internal/config"
	"technotes/api/internal/middleware"
	"technotes/api/internal/repository"
	"technotes/api/internal/security"
	"technotes/api/internal/service"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	tokens      *security.TokenIssuer
	authService *service.AuthService
	userService *service.UserService
	noteService *service.NoteService
	db          *surrealdb.DB
	cache       *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *surrealdb.DB, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	tokens := security.NewTokenIssuer(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.JWTAccessTTL,
		cfg.Security.JWTRefreshTTL,
	)

	auth := service.NewAuthService(userRepo, tokens, log)
	users := service.NewUserService(userRepo, noteRepo, cfg.Security.BcryptCost, log)
	notes := service.NewNoteService(noteRepo, userRepo, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		tokens:      tokens,
		authService: auth,
		userService: users,
		noteService: notes,
		db:          db,
		cache:       cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("", middleware.LoginRateLimit(middleware.RedisLoginCounter(h.cache), h.cfg.RateLimit, h.log), h.Login)
	auth.GET("/refresh", h.Refresh)
	auth.POST("/logout", h.Logout)

	protected := router.Group("")
	protected.Use(middleware.Auth(h.tokens))

	users := protected.Group("/users")
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.PUT("", h.UpdateUser)
	users.DELETE("", h.DeleteUser)

	notes := protected.Group("/notes")
	notes.GET("", h.ListNotes)
	notes.POST("", h.CreateNote)
	notes.PUT("", h.UpdateNote)
	notes.DELETE("", h.DeleteNote)
}
