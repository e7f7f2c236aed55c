// Package review implements product reviews with star ratings and
// helpfulness votes. A customer reviews a product at most once and casts at
// most one vote per review; re-voting replaces the previous vote.
package review

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("product already reviewed by this customer")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

type Review struct {
	ID                 int64
	ProductID          int64
	CustomerEmail      string
	Rating             int
	Title              string
	Comment            string
	IsVerifiedPurchase bool
	HelpfulCount       int
	NotHelpfulCount    int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HelpfulPercentage is the share of helpful votes, 0 when nobody voted.
func (r *Review) HelpfulPercentage() float64 {
	total := r.HelpfulCount + r.NotHelpfulCount
	if total == 0 {
		return 0
	}
	return float64(r.HelpfulCount) / float64(total) * 100
}
