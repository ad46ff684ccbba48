package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationIntervalDays is the minimum gap between two donations
const DonationIntervalDays = 90

// MinDonorHemoglobin is the lowest hemoglobin reading in g/dL accepted at collection
var MinDonorHemoglobin = decimal.NewFromFloat(12.5)

// NextEligibleDate returns the first day a donor may give blood again.
// A nil lastDonation means the donor never gave and is eligible today.
func NextEligibleDate(lastDonation *time.Time, today time.Time) time.Time {
	if lastDonation == nil {
		return DateOnly(today)
	}
	return DateOnly(*lastDonation).AddDate(0, 0, DonationIntervalDays)
}

// IsEligible reports whether today is on or after the next eligible date
func IsEligible(lastDonation *time.Time, today time.Time) bool {
	return !DateOnly(today).Before(NextEligibleDate(lastDonation, today))
}
