package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qwikplan/backend/pkg/domain"
	"github.com/qwikplan/backend/pkg/models"
)

func TestValidateRequest(t *testing.T) {
	req, err := ValidateRequest(models.GenerateRequest{
		Niche:    "  fitness  ",
		Audience: " busy parents ",
		Platform: "Instagram",
		Goal:     "grow followers",
	})
	require.NoError(t, err)

	assert.Equal(t, "fitness", req.Niche)
	assert.Equal(t, "busy parents", req.Audience)
	assert.Equal(t, "Instagram", req.Platform)
	assert.Equal(t, "grow followers", req.Goal)
}

func TestValidateRequestMissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  models.GenerateRequest
	}{
		{"empty", models.GenerateRequest{}},
		{"missing niche", models.GenerateRequest{Platform: "Instagram", Goal: "grow"}},
		{"missing platform", models.GenerateRequest{Niche: "fitness", Goal: "grow"}},
		{"missing goal", models.GenerateRequest{Niche: "fitness", Platform: "Instagram"}},
		{"whitespace only", models.GenerateRequest{Niche: "   ", Platform: "\t", Goal: "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRequest(tt.req)
			require.Error(t, err)
			assert.True(t, domain.IsBadRequest(err))
			assert.Contains(t, err.Error(), "Missing fields")
		})
	}
}

func TestValidateRequestAudienceOptional(t *testing.T) {
	req, err := ValidateRequest(models.GenerateRequest{
		Niche:    "fitness",
		Platform: "Instagram",
		Goal:     "grow",
	})
	require.NoError(t, err)
	assert.Empty(t, req.Audience)
}
