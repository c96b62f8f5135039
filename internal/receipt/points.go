package receipt

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	roundDollarPoints     = 50
	quarterMultiplePoints = 25
	pointsPerItemPair     = 5
	oddDayPoints          = 6
	afternoonPoints       = 10
)

var (
	oneDollar       = decimal.New(1, 0)
	quarterDollar   = decimal.New(25, -2)
	descriptionRate = decimal.New(2, -1)

	// Parsed purchase times land on January 1, year 0, so the window
	// bounds must use the same reference date.
	afternoonStart = time.Date(0, time.January, 1, 14, 0, 0, 0, time.UTC)
	afternoonEnd   = time.Date(0, time.January, 1, 16, 0, 0, 0, time.UTC)
)

// CalculatePoints returns the loyalty points awarded for a receipt.
// The score is the sum of seven independent rules and is always a
// non-negative integer. The function is pure and safe for concurrent use.
func CalculatePoints(r *Receipt) (int, error) {
	if r == nil {
		return 0, errors.New("receipt is required")
	}

	points := retailerNamePoints(r.Retailer)
	points += roundDollarTotalPoints(r.Total)
	points += quarterMultipleTotalPoints(r.Total)
	points += itemPairPoints(r.Items)
	points += descriptionLengthPoints(r.Items)
	points += oddPurchaseDayPoints(r.PurchaseDate)
	points += afternoonWindowPoints(r.PurchaseTime)

	return points, nil
}

// retailerNamePoints awards one point per ASCII alphanumeric character in
// the retailer name. Spaces, punctuation and non-ASCII symbols count for
// nothing.
func retailerNamePoints(retailer string) int {
	points := 0
	for _, c := range retailer {
		switch {
		case c >= '0' && c <= '9':
			points++
		case c >= 'A' && c <= 'Z':
			points++
		case c >= 'a' && c <= 'z':
			points++
		}
	}
	return points
}

// roundDollarTotalPoints awards 50 points when the total has no cents.
func roundDollarTotalPoints(total decimal.Decimal) int {
	if total.Mod(oneDollar).IsZero() {
		return roundDollarPoints
	}
	return 0
}

// quarterMultipleTotalPoints awards 25 points when the total is a multiple
// of 0.25. Not mutually exclusive with the round dollar rule: a total of
// 9.00 earns both.
func quarterMultipleTotalPoints(total decimal.Decimal) int {
	if total.Mod(quarterDollar).IsZero() {
		return quarterMultiplePoints
	}
	return 0
}

// itemPairPoints awards 5 points for every complete pair of items. An odd
// item out earns nothing.
func itemPairPoints(items []Item) int {
	return len(items) / 2 * pointsPerItemPair
}

// descriptionLengthPoints awards ceil(price * 0.2) for each item whose
// trimmed description length is a multiple of 3.
func descriptionLengthPoints(items []Item) int {
	points := 0
	for _, item := range items {
		trimmed := strings.TrimSpace(item.ShortDescription)
		if len(trimmed)%3 != 0 {
			continue
		}
		points += int(item.Price.Mul(descriptionRate).Ceil().IntPart())
	}
	return points
}

// oddPurchaseDayPoints awards 6 points when the day of the month is odd.
func oddPurchaseDayPoints(purchaseDate time.Time) int {
	if purchaseDate.Day()%2 == 1 {
		return oddDayPoints
	}
	return 0
}

// afternoonWindowPoints awards 10 points for purchases strictly between
// 14:00 and 16:00. Both bounds are exclusive: exactly 14:00 or 16:00
// earns nothing.
func afternoonWindowPoints(purchaseTime time.Time) int {
	if purchaseTime.After(afternoonStart) && purchaseTime.Before(afternoonEnd) {
		return afternoonPoints
	}
	return 0
}
