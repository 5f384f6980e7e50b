package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Status only moves forward.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectOpen:       {ProjectInProgress, ProjectCancelled},
	ProjectInProgress: {ProjectCompleted, ProjectCancelled},
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOpen, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsBids reports whether new bids may be submitted.
func (s ProjectStatus) AcceptsBids() bool {
	return s == ProjectOpen
}

type Project struct {
	ID            uuid.UUID        `json:"id"`
	CompanyID     uuid.UUID        `json:"company_id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	CategoryID    int64            `json:"category_id"`
	SubcategoryID *int64           `json:"subcategory_id,omitempty"`
	Location      string           `json:"location"`
	Budget        *decimal.Decimal `json:"budget,omitempty"`
	Status        ProjectStatus    `json:"status"`
	StartDate     *Date            `json:"start_date,omitempty"`
	EndDate       *Date            `json:"end_date,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Category    *Category       `json:"category,omitempty"`
	Subcategory *Subcategory    `json:"subcategory,omitempty"`
	Company     *CompanySummary `json:"company,omitempty"`
}

func (p *Project) OwnedBy(userID uuid.UUID) bool {
	return p.CompanyID == userID
}

// ProjectFilter narrows a project listing. Nil and empty fields do not filter.
// A zero Limit means no limit.
type ProjectFilter struct {
	CategoryID *int64
	Location   string
	Search     string
	Status     *ProjectStatus
	CompanyID  *uuid.UUID
	Limit      int
	Offset     int
}
