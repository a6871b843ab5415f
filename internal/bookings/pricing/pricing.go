// Package pricing computes booking charges from the stay interval and the
// room's nightly rate. The rate is snapshotted onto the booking at creation
// time; later room price changes never touch existing bookings.
package pricing

import (
	"math"
	"time"
)

// Nights is the number of billable nights in [checkIn, checkOut).
// Partial days round up: a 25-hour stay bills 2 nights. Callers guarantee
// checkOut is after checkIn.
func Nights(checkIn, checkOut time.Time) int {
	span := checkOut.Sub(checkIn)
	return int(math.Ceil(span.Hours() / 24))
}

// Total is the booking price: nights × nightly rate.
func Total(nightlyPrice float64, checkIn, checkOut time.Time) float64 {
	return float64(Nights(checkIn, checkOut)) * nightlyPrice
}
