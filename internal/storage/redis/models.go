package redis

import (
	"time"
)

// UserState is where a chat is in the booking dialog.
type UserState struct {
	Step string `json:"step"`
	// index of the package line or contact field being asked for
	LineIndex  int `json:"line_index,omitempty"`
	FieldIndex int `json:"field_index,omitempty"`
	// month shown in the date picker, 2006-01
	Month string `json:"month,omitempty"`

	Username  string    `json:"username,omitempty"`
	Booking   *Snapshot `json:"booking,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is everything the user entered for a booking. It is replayed
// through the session operations after a restart, so every value is checked
// again against the live API.
type Snapshot struct {
	PackageID     int               `json:"package_id"`
	Quantities    map[int]int       `json:"quantities,omitempty"`
	BookingSize   int               `json:"booking_size,omitempty"`
	Date          string            `json:"date,omitempty"`
	Time          string            `json:"time,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	DiscountCode  string            `json:"discount_code,omitempty"`
	Vouchers      []string          `json:"vouchers,omitempty"`
	Contact       map[string]string `json:"contact,omitempty"`
}
