package handler

import (
	"strconv"
	"time"

	"tutor-settlement/internal/adapter/http/dto"
	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"
	"tutor-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	defaultWorkflowListLimit = 100
	maxWorkflowListLimit     = 500
)

// AdminHandler serves the finance administration endpoints.
type AdminHandler struct {
	finance   ports.FinanceService
	unsettled ports.UnsettledService
	policies  ports.FeePolicyService
	workflows ports.WorkflowService
	now       func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	finance ports.FinanceService,
	unsettled ports.UnsettledService,
	policies ports.FeePolicyService,
	workflows ports.WorkflowService,
) *AdminHandler {
	return &AdminHandler{
		finance:   finance,
		unsettled: unsettled,
		policies:  policies,
		workflows: workflows,
		now:       time.Now,
	}
}

// FinanceSummary handles GET /api/v1/admin/finance/summary.
func (h *AdminHandler) FinanceSummary(c *gin.Context) {
	s, err := h.finance.Summary(c.Request.Context(), h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FinanceSummaryResponse{
		TotalRevenue:        money(s.TotalRevenue),
		TotalTeacherPayouts: money(s.TotalTeacherPayouts),
		TotalRefunds:        money(s.TotalRefunds),
		TotalFeesCollected:  money(s.TotalFeesCollected),
		OpenConflictAmount:  money(s.OpenConflictAmount),
		PendingRefunds:      money(s.PendingRefunds),
		PayingStudents:      s.PayingStudents,
		PaidTeachers:        s.PaidTeachers,
		GeneratedAt:         s.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

// ListUnsettled handles GET /api/v1/admin/unsettled?status=open|resolved.
func (h *AdminHandler) ListUnsettled(c *gin.Context) {
	var status *domain.UnsettledStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.UnsettledStatus(raw)
		if s != domain.UnsettledStatusOpen && s != domain.UnsettledStatusResolved {
			response.Error(c, apperror.Validation("status must be open or resolved"))
			return
		}
		status = &s
	}

	items, err := h.unsettled.ListByStatus(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []domain.UnsettledFinance{}
	}
	response.OK(c, items)
}

// ResolveUnsettled handles POST /api/v1/admin/unsettled/:id/resolve.
func (h *AdminHandler) ResolveUnsettled(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		response.Error(c, invalidID("unsettled id"))
		return
	}

	var req dto.ResolveUnsettledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	r := domain.Resolution{Action: req.Action, Notes: req.Notes}
	if req.Amount != nil {
		r.Amount = decimal.NewNullDecimal(*req.Amount)
	}

	item, err := h.unsettled.Resolve(c.Request.Context(), id, r, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// GetFeePolicy handles GET /api/v1/admin/fee-policy.
func (h *AdminHandler) GetFeePolicy(c *gin.Context) {
	active, err := h.policies.ResolvePolicy(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.policies.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if history == nil {
		history = []domain.FeePolicy{}
	}
	response.OK(c, dto.FeePolicyResponse{Active: active, History: history})
}

// CreateFeePolicy handles POST /api/v1/admin/fee-policy.
// The new policy becomes the only active one.
func (h *AdminHandler) CreateFeePolicy(c *gin.Context) {
	var req dto.FeePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	p := domain.FeePolicy{
		FeePercentage:   req.FeePercentage,
		MinimumFee:      req.MinimumFee,
		PayoutWaitHours: req.PayoutWaitHours,
		Description:     req.Description,
	}
	if req.MaximumFee != nil {
		p.MaximumFee = decimal.NewNullDecimal(*req.MaximumFee)
	}

	created, err := h.policies.Create(c.Request.Context(), p, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// ListWorkflows handles GET /api/v1/admin/workflows?limit=.
func (h *AdminHandler) ListWorkflows(c *gin.Context) {
	limit := defaultWorkflowListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxWorkflowListLimit {
			response.Error(c, apperror.Validation("limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	wfs, err := h.workflows.ListActiveWorkflows(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if wfs == nil {
		wfs = []domain.Workflow{}
	}
	response.OK(c, wfs)
}

// GetWorkflow handles GET /api/v1/admin/workflows/:id.
func (h *AdminHandler) GetWorkflow(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		response.Error(c, invalidID("workflow id"))
		return
	}

	wf, err := h.workflows.GetWorkflow(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if wf == nil {
		response.Error(c, apperror.ErrNotFound("Workflow"))
		return
	}
	response.OK(c, wf)
}

// AdvanceWorkflow handles POST /api/v1/admin/workflows/:id/advance.
func (h *AdminHandler) AdvanceWorkflow(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		response.Error(c, invalidID("workflow id"))
		return
	}

	res, err := h.workflows.AdvanceStage(c.Request.Context(), id, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.WorkflowStepResponse{
		Workflow: res.Workflow,
		Advanced: res.Advanced,
		Skipped:  res.Skipped,
	})
}
