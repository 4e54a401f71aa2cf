package entity

import (
	"encoding/json"
	"net/http"
	"time"

	"fondeo/lib/validate"

	"github.com/shopspring/decimal"
)

// IdeaConfig captures the parameters a user picked before generating a
// startup idea. Free-form generated payloads live on the Project.
type IdeaConfig struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Industry      string    `json:"industry" validate:"required,max=200"`
	Investment    string    `json:"investment" validate:"required,max=200"`
	IdeaTopic     string    `json:"idea_topic" validate:"omitempty,max=255"`
	BriefInfo     string    `json:"brief_info" validate:"omitempty"`
	Complexity    string    `json:"complexity" validate:"omitempty,max=100"`
	BusinessModel []string  `json:"business_model"`
	GoldenTicket  bool      `json:"is_golden_ticket"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *IdeaConfig) Bind(_ *http.Request) error {
	return validate.Struct(c)
}

type Project struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"owner_id"`
	ConfigID    int64           `json:"config,omitempty"`
	Name        string          `json:"project_name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type StartProjectParams struct {
	Name        string          `json:"project_name" validate:"required,max=255"`
	Description string          `json:"description" validate:"omitempty"`
	ConfigID    int64           `json:"config" validate:"omitempty"`
	Data        json.RawMessage `json:"data" validate:"omitempty"`
}

func (p *StartProjectParams) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

// ProjectListing is a marketplace entry offering equity for funding.
type ProjectListing struct {
	ID            int64           `json:"id"`
	ProjectID     int64           `json:"project"`
	FundingSought decimal.Decimal `json:"funding_sought"`
	EquityOffered decimal.Decimal `json:"equity_offered"` // percent
	Pitch         string          `json:"pitch"`
	CreatedAt     time.Time       `json:"created_at"`

	// Denormalized for the public marketplace view.
	ProjectName  string `json:"projectName,omitempty"`
	Description  string `json:"description,omitempty"`
	FounderPhone string `json:"founderPhone,omitempty"`
	FounderName  string `json:"founderName,omitempty"`
}

type ListingParams struct {
	ProjectID     int64           `json:"project" validate:"required"`
	FundingSought decimal.Decimal `json:"funding_sought" validate:"required"`
	EquityOffered decimal.Decimal `json:"equity_offered" validate:"required"`
	Pitch         string          `json:"pitch" validate:"required"`
}

func (p *ListingParams) Bind(_ *http.Request) error {
	return validate.Struct(p)
}
