package utils

import (
	"fmt"
	"time"

	"parkwise-backend/internal/domain"
)

// ParkingFeeBreakdown provides the detailed composition of a checkout amount.
type ParkingFeeBreakdown struct {
	FullHours         int64
	FractionBlocks    int64
	HoursAmountCents  int64
	BlocksAmountCents int64
	TotalAmountCents  int64
}

// CalculateParkingFee computes the amount owed for a stay, in cents.
//
// Full hours are billed at the spot's hourly rate. Any positive remainder,
// however small, is rounded up to whole fraction blocks billed at the flat
// block rate; an exact-hour stay is charged zero blocks. All arithmetic is
// integral, so no intermediate rounding can occur.
func CalculateParkingFee(entryTime, exitTime time.Time, hourlyRateCents int64, fractionBlockMinutes int, fractionBlockRateCents int64) (int64, error) {
	breakdown, err := CalculateParkingFeeBreakdown(entryTime, exitTime, hourlyRateCents, fractionBlockMinutes, fractionBlockRateCents)
	if err != nil {
		return 0, err
	}
	return breakdown.TotalAmountCents, nil
}

// CalculateParkingFeeBreakdown is CalculateParkingFee with the hour and
// block counts and their sub-amounts exposed, for receipts and estimates.
func CalculateParkingFeeBreakdown(entryTime, exitTime time.Time, hourlyRateCents int64, fractionBlockMinutes int, fractionBlockRateCents int64) (ParkingFeeBreakdown, error) {
	if !exitTime.After(entryTime) {
		return ParkingFeeBreakdown{}, domain.ErrInvalidInterval
	}
	if hourlyRateCents < 0 || fractionBlockRateCents < 0 {
		return ParkingFeeBreakdown{}, domain.ErrInvalidRate
	}
	if fractionBlockMinutes <= 0 {
		return ParkingFeeBreakdown{}, fmt.Errorf("fraction block length must be positive, got %d minutes", fractionBlockMinutes)
	}

	duration := exitTime.Sub(entryTime)
	fullHours := int64(duration / time.Hour)
	remainder := duration % time.Hour

	block := time.Duration(fractionBlockMinutes) * time.Minute
	var blocks int64
	if remainder > 0 {
		blocks = int64((remainder + block - 1) / block)
	}

	b := ParkingFeeBreakdown{
		FullHours:         fullHours,
		FractionBlocks:    blocks,
		HoursAmountCents:  fullHours * hourlyRateCents,
		BlocksAmountCents: blocks * fractionBlockRateCents,
	}
	b.TotalAmountCents = b.HoursAmountCents + b.BlocksAmountCents
	return b, nil
}
