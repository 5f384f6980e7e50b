package project

import (
	"constructhub/internal/domain"

	"github.com/shopspring/decimal"
)

type CreateProjectRequest struct {
	Title         string           `json:"title" validate:"required,min=5"`
	Description   string           `json:"description" validate:"required,min=20"`
	CategoryID    *int64           `json:"category_id" validate:"required,gt=0"`
	SubcategoryID *int64           `json:"subcategory_id" validate:"omitempty,gt=0"`
	Location      string           `json:"location" validate:"required,min=2"`
	Budget        *decimal.Decimal `json:"budget"`
	StartDate     string           `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string           `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListQuery holds raw query string values; "all" or empty means no filter.
type ListQuery struct {
	Category string `form:"category"`
	Location string `form:"location"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Limit    string `form:"limit"`
	Offset   string `form:"offset"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress completed cancelled"`
}

// Detail is a project as seen by one caller.
type Detail struct {
	*domain.Project
	MyBid   *domain.Bid `json:"my_bid,omitempty"`
	CanBid  bool        `json:"can_bid"`
	IsOwner bool        `json:"is_owner"`
}

// Summary is a company dashboard row.
type Summary struct {
	domain.Project
	Bids domain.BidCounts `json:"bids"`
}
