package models

// GenerateRequest represents a content plan generation request
type GenerateRequest struct {
	Niche    string `json:"niche" validate:"required"`
	Audience string `json:"audience"`
	Platform string `json:"platform" validate:"required"`
	Goal     string `json:"goal" validate:"required"`
	IsDemo   bool   `json:"isDemo"`
}

// PlanResponse represents a normalized content plan
type PlanResponse struct {
	Strategy     string   `json:"strategy"`
	Schedule     []string `json:"schedule"`
	ProTip       string   `json:"proTip"`
	BestPostTime string   `json:"bestPostTime"`
	Hashtags     string   `json:"hashtags"`
}

// StrategyResponse represents one history row in the account's dashboard
type StrategyResponse struct {
	ID        string   `json:"id"`
	Niche     string   `json:"niche"`
	Platform  string   `json:"platform"`
	Goal      string   `json:"goal"`
	Strategy  string   `json:"strategy"`
	Schedule  []string `json:"schedule"`
	Hashtags  string   `json:"hashtags"`
	CreatedAt string   `json:"created_at"`
}

// UsageResponse represents usage statistics
type UsageResponse struct {
	UsageCount int    `json:"usage_count"`
	UsageLimit int    `json:"usage_limit"`
	Remaining  int    `json:"remaining"`
	ResetAt    string `json:"reset_at"`
}

// QuotaInfo is embedded in 429 responses when the monthly limit is hit
type QuotaInfo struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
}
