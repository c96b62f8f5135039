package receipt

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item represents a single line item on a receipt
type Item struct {
	ShortDescription string          `json:"shortDescription"`
	Price            decimal.Decimal `json:"price"`
}

// NewItem creates a validated Item. The description must not be blank and
// the price must not be negative.
func NewItem(shortDescription string, price decimal.Decimal) (Item, error) {
	if strings.TrimSpace(shortDescription) == "" {
		return Item{}, errors.New("short description must not be blank")
	}
	if price.IsNegative() {
		return Item{}, errors.New("price must not be negative")
	}
	return Item{
		ShortDescription: shortDescription,
		Price:            price,
	}, nil
}

// Receipt represents a single shopping transaction with metadata
type Receipt struct {
	ID           string          `json:"id"`
	Retailer     string          `json:"retailer"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	PurchaseTime time.Time       `json:"purchaseTime"`
	Items        []Item          `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

// NewReceipt creates a validated Receipt and assigns it a random UUID.
// A Receipt can only be built through this constructor, so no invalid
// receipt can ever reach the store. Receipts are treated as immutable
// once created.
func NewReceipt(retailer string, purchaseDate, purchaseTime time.Time, items []Item, total decimal.Decimal) (*Receipt, error) {
	if strings.TrimSpace(retailer) == "" {
		return nil, errors.New("retailer must not be blank")
	}
	if purchaseDate.IsZero() {
		return nil, errors.New("purchase date is required")
	}
	if items == nil {
		return nil, errors.New("items must not be nil")
	}
	if total.IsNegative() {
		return nil, errors.New("total must not be negative")
	}

	return &Receipt{
		ID:           uuid.NewString(),
		Retailer:     retailer,
		PurchaseDate: purchaseDate,
		PurchaseTime: purchaseTime,
		Items:        items,
		Total:        total,
	}, nil
}
