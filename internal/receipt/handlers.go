package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// itemPayload is the wire form of a receipt line item. Fields are pointers
// so that a missing field can be told apart from an empty one.
type itemPayload struct {
	ShortDescription *string `json:"shortDescription"`
	Price            *string `json:"price"`
}

// receiptPayload is the wire form of a receipt submission
type receiptPayload struct {
	Retailer     *string       `json:"retailer"`
	PurchaseDate *string       `json:"purchaseDate"`
	PurchaseTime *string       `json:"purchaseTime"`
	Items        []itemPayload `json:"items"`
	Total        *string       `json:"total"`
}

// toReceipt validates the payload and converts it into a domain Receipt.
// On validation failure it returns a map of field name to error message,
// which the handler serializes as the 400 response body.
func (p *receiptPayload) toReceipt() (*Receipt, map[string]string) {
	errs := make(map[string]string)

	if p.Retailer == nil || strings.TrimSpace(*p.Retailer) == "" {
		errs["retailer"] = "Retailer name is required and must not be blank."
	}

	var purchaseDate time.Time
	if p.PurchaseDate == nil {
		errs["purchaseDate"] = "Purchase date is required."
	} else {
		var err error
		purchaseDate, err = time.Parse(dateLayout, *p.PurchaseDate)
		if err != nil {
			errs["purchaseDate"] = "Purchase date must be a valid date in YYYY-MM-DD format."
		}
	}

	var purchaseTime time.Time
	if p.PurchaseTime == nil {
		errs["purchaseTime"] = "Purchase time is required."
	} else {
		var err error
		purchaseTime, err = time.Parse(timeLayout, *p.PurchaseTime)
		if err != nil {
			errs["purchaseTime"] = "Purchase time must be a valid time in HH:MM format."
		}
	}

	var items []Item
	switch {
	case p.Items == nil:
		errs["items"] = "Items list is required and must not be null."
	case len(p.Items) == 0:
		errs["items"] = "Items list must not be empty."
	default:
		items = make([]Item, 0, len(p.Items))
		for i, ip := range p.Items {
			description := ""
			if ip.ShortDescription == nil || strings.TrimSpace(*ip.ShortDescription) == "" {
				errs[fmt.Sprintf("items[%d].shortDescription", i)] = "Short description is required and must not be blank."
			} else {
				description = *ip.ShortDescription
			}

			price := decimal.Zero
			if ip.Price == nil {
				errs[fmt.Sprintf("items[%d].price", i)] = "Price is required."
			} else if parsed, err := decimal.NewFromString(*ip.Price); err != nil {
				errs[fmt.Sprintf("items[%d].price", i)] = "Price must be a valid decimal amount."
			} else if parsed.IsNegative() {
				errs[fmt.Sprintf("items[%d].price", i)] = "Price must be positive or zero."
			} else {
				price = parsed
			}

			if description != "" {
				item, err := NewItem(description, price)
				if err == nil {
					items = append(items, item)
				}
			}
		}
	}

	total := decimal.Zero
	if p.Total == nil {
		errs["total"] = "Total amount is required."
	} else if parsed, err := decimal.NewFromString(*p.Total); err != nil {
		errs["total"] = "Total amount must be a valid decimal amount."
	} else if parsed.IsNegative() {
		errs["total"] = "Total amount must be positive or zero."
	} else {
		total = parsed
	}

	if len(errs) > 0 {
		return nil, errs
	}

	receipt, err := NewReceipt(*p.Retailer, purchaseDate, purchaseTime, items, total)
	if err != nil {
		// Unreachable after field validation, but surface it rather than
		// storing a half-built receipt.
		errs["receipt"] = err.Error()
		return nil, errs
	}
	return receipt, nil
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON writes a JSON response with CORS headers set
func writeJSON(w http.ResponseWriter, status int, body any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleProcessReceipt accepts a receipt submission, stores it and returns
// the generated ID
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	var payload receiptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("Malformed receipt payload", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Malformed JSON request.",
		})
		return
	}

	receipt, fieldErrs := payload.toReceipt()
	if fieldErrs != nil {
		slog.Warn("Receipt validation failed", "fields", len(fieldErrs))
		writeJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}

	id, err := s.service.ProcessReceipt(receipt)
	if err != nil {
		slog.Error("Error processing receipt", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "An unexpected error occurred",
		})
		return
	}

	receiptsProcessed.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handleGetPoints returns the loyalty points for a stored receipt
func (s *Server) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		pointsLookups.WithLabelValues("invalid_id").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Receipt ID must be a valid UUID.",
		})
		return
	}

	points, err := s.service.ReceiptPoints(id)
	switch {
	case err == nil:
		pointsLookups.WithLabelValues("ok").Inc()
		writeJSON(w, http.StatusOK, map[string]int{"points": points})
	case errors.Is(err, ErrReceiptNotFound):
		pointsLookups.WithLabelValues("not_found").Inc()
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "No receipt found for that ID.",
		})
	default:
		slog.Error("Error calculating points", "id", id, "error", err)
		pointsLookups.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "An unexpected error occurred",
		})
	}
}

// handleGetReceipt returns a single stored receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	receipt, err := s.service.GetReceipt(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "No receipt found for that ID.",
		})
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// handleListReceipts returns all stored receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts := s.service.ListReceipts()
	writeJSON(w, http.StatusOK, receipts)
}

// handleDeleteReceipt removes a stored receipt
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.DeleteReceipt(id); err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "No receipt found for that ID.",
			})
			return
		}
		slog.Error("Error deleting receipt", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "An unexpected error occurred",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
