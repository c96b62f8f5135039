package receipt

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrReceiptNotFound is returned when no receipt exists for a well-formed
// ID. It is an expected outcome, not a failure; the HTTP layer maps it to
// a 404.
var ErrReceiptNotFound = errors.New("receipt not found")

// Service handles receipt operations
type Service struct {
	store *Store
}

// NewService creates a new Service backed by the given store
func NewService(store *Store) *Service {
	return &Service{
		store: store,
	}
}

// ProcessReceipt stores a validated receipt and returns its generated ID
func (s *Service) ProcessReceipt(r *Receipt) (string, error) {
	if r == nil {
		return "", errors.New("receipt is required")
	}

	if err := s.store.Save(r); err != nil {
		return "", fmt.Errorf("saving receipt: %w", err)
	}

	slog.Info("Receipt processed", "id", r.ID, "retailer", r.Retailer, "total", r.Total)
	return r.ID, nil
}

// ReceiptPoints calculates the loyalty points for a stored receipt.
// Returns ErrReceiptNotFound if no receipt exists for the ID.
func (s *Service) ReceiptPoints(id string) (int, error) {
	r, ok, err := s.store.FindByID(id)
	if err != nil {
		return 0, fmt.Errorf("finding receipt: %w", err)
	}
	if !ok {
		return 0, ErrReceiptNotFound
	}

	points, err := CalculatePoints(r)
	if err != nil {
		return 0, fmt.Errorf("calculating points: %w", err)
	}

	slog.Info("Points calculated", "id", id, "points", points)
	return points, nil
}

// GetReceipt retrieves a stored receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	r, ok, err := s.store.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding receipt: %w", err)
	}
	if !ok {
		return nil, ErrReceiptNotFound
	}
	return r, nil
}

// ListReceipts returns all stored receipts
func (s *Service) ListReceipts() []*Receipt {
	snapshot := s.store.FindAll()
	receipts := make([]*Receipt, 0, len(snapshot))
	for _, r := range snapshot {
		receipts = append(receipts, r)
	}
	return receipts
}

// DeleteReceipt removes a stored receipt by ID.
// Returns ErrReceiptNotFound if no receipt exists for the ID.
func (s *Service) DeleteReceipt(id string) error {
	removed, err := s.store.DeleteByID(id)
	if err != nil {
		return fmt.Errorf("deleting receipt: %w", err)
	}
	if !removed {
		return ErrReceiptNotFound
	}

	slog.Info("Receipt deleted", "id", id)
	return nil
}
