package handler

import (
	"batch-custody-ledger/internal/adapter/http/middleware"
	redisStore "batch-custody-ledger/internal/adapter/storage/redis"
	"batch-custody-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc          ports.AuthService
	RegistrySvc      ports.RegistryService
	VerificationSvc  ports.VerificationService
	RewardSvc        ports.RewardService
	AggregatorSvc    ports.AggregatorService
	ManufacturerRepo ports.ManufacturerRepository
	EncSvc           ports.EncryptionService
	RequestSigner    ports.RequestSigner
	NonceStore       ports.NonceStore
	TokenSvc         ports.TokenService
	RateLimitStore   *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers   []ports.HealthChecker
	ManufacturerSvc  ports.ManufacturerService // nil = account management disabled
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	batchHandler := NewBatchHandler(deps.RegistrySvc, deps.VerificationSvc, deps.RewardSvc)
	channelHandler := NewChannelHandler(deps.AggregatorSvc)

	hmacAuth := middleware.HMACAuth(deps.ManufacturerRepo, deps.EncSvc, deps.RequestSigner, deps.NonceStore, deps.Logger)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	batches := v1.Group("/batches")
	{
		// Writes from manufacturers are HMAC-signed.
		batches.POST("", hmacAuth, rl("batches"), batchHandler.Register)

		// Attestations and claims authenticate through their payload
		// signatures, not transport auth.
		batches.POST("/:id/verifications", rl("verifications"), batchHandler.Verify)
		batches.POST("/:id/claim", rl("claims"), batchHandler.Claim)

		// Query surface (JWT)
		batches.GET("", jwtAuth, rl("queries"), batchHandler.List)
		batches.GET("/:id", jwtAuth, rl("queries"), batchHandler.Get)
		batches.GET("/:id/status", jwtAuth, rl("queries"), batchHandler.GetStatus)
		batches.GET("/:id/participants/:identity", jwtAuth, rl("queries"), batchHandler.GetParticipant)
		batches.GET("/:id/can-verify/:identity", jwtAuth, rl("queries"), batchHandler.CanVerify)
		batches.GET("/:id/events", jwtAuth, rl("queries"), batchHandler.ListEvents)
	}

	channels := v1.Group("/channels")
	{
		channels.POST("/:id/intents", hmacAuth, rl("channels"), channelHandler.BufferIntent)
		channels.POST("/:id/settle", hmacAuth, rl("channels"), channelHandler.Settle)
		channels.GET("/:id", jwtAuth, rl("queries"), channelHandler.Get)
	}

	// --- Manufacturer account management (JWT-authenticated) ---
	if deps.ManufacturerSvc != nil {
		manufacturerHandler := NewManufacturerHandler(deps.ManufacturerSvc)
		manufacturers := v1.Group("/manufacturers/me", jwtAuth)
		{
			manufacturers.GET("", rl("queries"), manufacturerHandler.GetProfile)
			manufacturers.POST("/rotate-keys", rl("queries"), manufacturerHandler.RotateKeys)
		}
	}

	return r
}
