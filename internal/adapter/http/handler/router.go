package handler

import (
	"tutor-settlement/internal/adapter/http/middleware"
	redisStore "tutor-settlement/internal/adapter/storage/redis"
	"tutor-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	GatewaySvc      ports.GatewayEventService
	CancellationSvc ports.CancellationService
	Ledger          ports.Ledger
	FeePolicySvc    ports.FeePolicyService
	FinanceSvc      ports.FinanceService
	UnsettledSvc    ports.UnsettledService
	WorkflowSvc     ports.WorkflowService
	TokenSvc        ports.TokenService
	GatewaySecret   string                     // empty = gateway signature check disabled
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	AuditSvc        ports.AuditService // nil = audit logging disabled
	OpenAPISpec     []byte             // nil = /swagger answers 404
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Deep health check over PostgreSQL and Redis
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	NewAPIDocs(deps.OpenAPISpec, "Tutor Settlement Engine API").Register(r)

	rules := middleware.DefaultRateLimitRules()
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

	v1 := r.Group("/api/v1")

	// --- Gateway callbacks (signed) ---
	gatewayHandler := NewGatewayHandler(deps.GatewaySvc)
	gateway := v1.Group("/gateway", rl("gateway"))
	if deps.GatewaySecret != "" {
		gateway.Use(middleware.GatewaySignature(deps.GatewaySecret, deps.Logger))
	}
	{
		gateway.POST("/payments", gatewayHandler.PaymentConfirmed)
		gateway.POST("/refunds", gatewayHandler.RefundIssued)
	}

	// --- Cancellations ---
	cancelHandler := NewCancellationHandler(deps.CancellationSvc)
	txHandler := NewTransactionHandler(deps.Ledger, deps.FeePolicySvc)

	bookings := v1.Group("/bookings")
	{
		bookings.POST("/cancel", rl("cancellations"), cancelHandler.BulkCancel)
		bookings.POST("/:id/cancel", rl("cancellations"), cancelHandler.CancelBooking)
		bookings.GET("/:id/transactions", rl("reads"), txHandler.ListByBooking)
	}
	v1.POST("/enrollments/:id/cancel", rl("cancellations"), cancelHandler.CancelEnrollment)

	// --- Ledger reads ---
	v1.GET("/transactions/:id", rl("reads"), txHandler.GetTransaction)
	v1.GET("/users/:id/transactions", rl("reads"), txHandler.ListByUser)
	v1.GET("/fees/preview", rl("reads"), txHandler.PreviewFee)

	// --- Admin (JWT, admin role) ---
	adminHandler := NewAdminHandler(deps.FinanceSvc, deps.UnsettledSvc, deps.FeePolicySvc, deps.WorkflowSvc)
	admin := v1.Group("/admin",
		middleware.JWTAuth(deps.TokenSvc, deps.Logger),
		middleware.RequireRole(middleware.RoleAdmin),
		rl("admin"),
	)
	{
		admin.GET("/finance/summary", adminHandler.FinanceSummary)
		admin.GET("/unsettled", adminHandler.ListUnsettled)
		admin.POST("/unsettled/:id/resolve", adminHandler.ResolveUnsettled)
		admin.GET("/fee-policy", adminHandler.GetFeePolicy)
		admin.POST("/fee-policy", adminHandler.CreateFeePolicy)
		admin.GET("/workflows", adminHandler.ListWorkflows)
		admin.GET("/workflows/:id", adminHandler.GetWorkflow)
		admin.POST("/workflows/:id/advance", adminHandler.AdvanceWorkflow)
	}

	return r
}
