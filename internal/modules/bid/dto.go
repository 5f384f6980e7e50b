package bid

import (
	"constructhub/internal/domain"

	"github.com/shopspring/decimal"
)

type SubmitBidRequest struct {
	BidAmount  *decimal.Decimal `json:"bid_amount"`
	Proposal   string           `json:"proposal" validate:"required,min=20"`
	Experience string           `json:"experience" validate:"omitempty,max=2000"`
}

type DecideRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// ProjectBids is the owner's review list. Counts always cover every bid,
// whatever the filter.
type ProjectBids struct {
	Bids   []domain.Bid     `json:"bids"`
	Counts domain.BidCounts `json:"counts"`
	Filter string           `json:"filter"`
}
