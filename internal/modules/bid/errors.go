package bid

import "errors"

var (
	ErrAlreadyBid     = errors.New("you have already submitted a bid for this project")
	ErrProjectNotOpen = errors.New("project is not accepting bids")
)
