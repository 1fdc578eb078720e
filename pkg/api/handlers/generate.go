package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/qwikplan/backend/pkg/api/errors"
	"github.com/qwikplan/backend/pkg/domain"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/metrics"
	"github.com/qwikplan/backend/pkg/middleware"
	"github.com/qwikplan/backend/pkg/models"
	"github.com/qwikplan/backend/pkg/plan"
	"github.com/qwikplan/backend/pkg/planner"
)

// GenerateHandler serves the plan generation endpoints
type GenerateHandler struct {
	planner *planner.Service
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(plannerService *planner.Service, m *metrics.Metrics, log logger.Logger) *GenerateHandler {
	return &GenerateHandler{planner: plannerService, metrics: m, log: log}
}

// Generate handles POST /generate. The full flow requires an
// authenticated identity; a body with isDemo=true routes to the demo
// flow without consulting identity, quota or history.
func (h *GenerateHandler) Generate(c echo.Context) error {
	var body models.GenerateRequest
	if err := c.Bind(&body); err != nil {
		return apierrors.BadRequest(c, "Invalid JSON body")
	}

	req, err := planner.ValidateRequest(body)
	if err != nil {
		return apierrors.Write(c, h.log, err)
	}

	if body.IsDemo {
		p, err := h.planner.GenerateDemo(c.Request().Context(), req)
		return h.respond(c, "demo", p, err)
	}

	accountID, ok := middleware.AccountID(c)
	if !ok {
		return apierrors.Unauthorized(c)
	}

	p, err := h.planner.GenerateFull(c.Request().Context(), accountID, req)
	return h.respond(c, "full", p, err)
}

// DemoGenerate handles POST /demo-generate: no authentication, no
// admission, no quota, no persistence, always the demo day count
func (h *GenerateHandler) DemoGenerate(c echo.Context) error {
	var body models.GenerateRequest
	if err := c.Bind(&body); err != nil {
		return apierrors.BadRequest(c, "Invalid JSON body")
	}

	req, err := planner.ValidateRequest(body)
	if err != nil {
		return apierrors.Write(c, h.log, err)
	}

	p, err := h.planner.GenerateDemo(c.Request().Context(), req)
	return h.respond(c, "demo", p, err)
}

func (h *GenerateHandler) respond(c echo.Context, flow string, p *plan.Plan, err error) error {
	if err != nil {
		h.metrics.ObserveGeneration(flow, domain.GetErrorCode(err))
		return apierrors.Write(c, h.log, err)
	}

	h.metrics.ObserveGeneration(flow, "success")

	return c.JSON(http.StatusOK, models.PlanResponse{
		Strategy:     p.Strategy,
		Schedule:     p.Schedule,
		ProTip:       p.ProTip,
		BestPostTime: p.BestPostTime,
		Hashtags:     p.Hashtags,
	})
}
