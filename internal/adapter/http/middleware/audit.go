package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful write operations.
// Actions are resolved from the matched route template, not the raw path.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var actorID *string
		if actor := c.GetString(CtxActorID); actor != "" {
			actorID = &actor
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      actorID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/gateway/payments":
		return domain.AuditActionGatewayPayment, "transaction"
	case "/api/v1/gateway/refunds":
		return domain.AuditActionGatewayRefund, "transaction"
	case "/api/v1/bookings/:id/cancel":
		return domain.AuditActionCancelBooking, "booking"
	case "/api/v1/bookings/cancel":
		return domain.AuditActionBulkCancel, "booking"
	case "/api/v1/enrollments/:id/cancel":
		return domain.AuditActionCancelEnrollment, "enrollment"
	case "/api/v1/admin/unsettled/:id/resolve":
		return domain.AuditActionResolveUnsettled, "unsettled_finance"
	case "/api/v1/admin/fee-policy":
		return domain.AuditActionCreateFeePolicy, "fee_policy"
	case "/api/v1/admin/workflows/:id/advance":
		return domain.AuditActionAdvanceWorkflow, "workflow"
	}
	return "", ""
}
