package models

import "time"

// GeneralAdmission is the seat number of tickets without an assigned seat.
const GeneralAdmission int64 = 0

// Ticket represents an individual ticket minted against an event.
// OriginalOwner is the principal who performed the primary purchase; the
// current holder lives in the ownership registry and may differ after resale.
type Ticket struct {
	ID             int64     `json:"id" db:"id"`
	EventID        int64     `json:"event_id" db:"event_id"`
	OriginalPrice  int64     `json:"original_price" db:"original_price"`
	CurrentPrice   int64     `json:"current_price" db:"current_price"`
	MaxResalePrice int64     `json:"max_resale_price" db:"max_resale_price"`
	SeatNumber     int64     `json:"seat_number" db:"seat_number"`
	IsUsed         bool      `json:"is_used" db:"is_used"`
	OriginalOwner  string    `json:"original_owner" db:"original_owner"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ResalePrice computes the maximum resale price for a ticket sold at price
// under the given multiplier (hundredths). Integer division truncates toward
// zero, matching how all marketplace amounts are computed.
func ResalePrice(price, multiplier int64) int64 {
	return price * multiplier / MultiplierBasis
}

// RoyaltySplit divides an attached payment value between the organizer and
// the seller. The royalty is floor(value * royaltyPercent / 10000) and the
// seller amount is the exact complement, so the two always sum to value.
func RoyaltySplit(value, royaltyPercent int64) (royalty, seller int64) {
	royalty = value * royaltyPercent / RoyaltyBasis
	return royalty, value - royalty
}
