package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
)

func (s BidStatus) Valid() bool {
	return s == BidPending || s == BidAccepted || s == BidRejected
}

// CanTransitionTo allows only pending -> accepted|rejected.
func (s BidStatus) CanTransitionTo(next BidStatus) bool {
	return s == BidPending && (next == BidAccepted || next == BidRejected)
}

type Bid struct {
	ID         uuid.UUID       `json:"id"`
	ProjectID  uuid.UUID       `json:"project_id"`
	ClientID   uuid.UUID       `json:"client_id"`
	BidAmount  decimal.Decimal `json:"bid_amount"`
	Proposal   string          `json:"proposal"`
	Experience string          `json:"experience,omitempty"`
	Status     BidStatus       `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Project *Project `json:"project,omitempty"`
	Bidder  *Bidder  `json:"bidder,omitempty"`
}

// BidCounts partitions a project's bids by status.
type BidCounts struct {
	All      int64 `json:"all"`
	Pending  int64 `json:"pending"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}

func (c *BidCounts) Add(status BidStatus, n int64) {
	c.All += n
	switch status {
	case BidPending:
		c.Pending += n
	case BidAccepted:
		c.Accepted += n
	case BidRejected:
		c.Rejected += n
	}
}
