package planner

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/qwikplan/backend/pkg/domain"
	"github.com/qwikplan/backend/pkg/models"
	"github.com/qwikplan/backend/pkg/plan"
)

var validate = validator.New()

// ValidateRequest trims the textual fields and rejects the request if
// niche, platform or goal is empty after trimming. Audience is
// optional; the default display text is applied at prompt build time.
func ValidateRequest(req models.GenerateRequest) (plan.Request, error) {
	trimmed := models.GenerateRequest{
		Niche:    strings.TrimSpace(req.Niche),
		Audience: strings.TrimSpace(req.Audience),
		Platform: strings.TrimSpace(req.Platform),
		Goal:     strings.TrimSpace(req.Goal),
		IsDemo:   req.IsDemo,
	}

	if err := validate.Struct(trimmed); err != nil {
		return plan.Request{}, domain.NewBadRequestError("Missing fields")
	}

	return plan.Request{
		Niche:    trimmed.Niche,
		Audience: trimmed.Audience,
		Platform: trimmed.Platform,
		Goal:     trimmed.Goal,
	}, nil
}
