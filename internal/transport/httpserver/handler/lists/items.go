package lists

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"smartshopping-go/internal/domain/shopping"
)

type createItemRequest struct {
	Name           string   `json:"name"`
	Category       *string  `json:"category"`
	Quantity       *int     `json:"quantity"`
	Unit           *string  `json:"unit"`
	EstimatedPrice *float64 `json:"estimated_price"`
	ActualPrice    *float64 `json:"actual_price"`
	IsPurchased    bool     `json:"is_purchased"`
	Notes          *string  `json:"notes"`
	Barcode        *string  `json:"barcode"`
}

type updateItemRequest struct {
	Name             *string  `json:"name"`
	Category         *string  `json:"category"`
	Quantity         *int     `json:"quantity"`
	Unit             *string  `json:"unit"`
	EstimatedPrice   *float64 `json:"estimated_price"`
	ActualPrice      *float64 `json:"actual_price"`
	ClearActualPrice bool     `json:"clear_actual_price"`
	IsPurchased      *bool    `json:"is_purchased"`
	Notes            *string  `json:"notes"`
	Barcode          *string  `json:"barcode"`
}

func validPrice(value *float64) bool {
	return value == nil || *value >= 0
}

func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	listID := chi.URLParam(r, "list_id")
	if _, err := store.FindList(listID); err != nil {
		h.fail(w, "lists.create_item", err, "list_id", listID)
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be positive")
		return
	}
	if !validPrice(req.EstimatedPrice) || !validPrice(req.ActualPrice) {
		writeError(w, http.StatusBadRequest, "invalid_request", "prices must not be negative")
		return
	}

	item := shopping.Item{
		ListID:         listID,
		Name:           name,
		Category:       trimmedOrNil(req.Category),
		EstimatedPrice: req.EstimatedPrice,
		ActualPrice:    req.ActualPrice,
		IsPurchased:    req.IsPurchased,
		Notes:          trimmedOrNil(req.Notes),
		Barcode:        trimmedOrNil(req.Barcode),
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = strings.TrimSpace(*req.Unit)
	}

	created, err := store.CreateItem(r.Context(), item, listID)
	if err != nil {
		h.fail(w, "lists.create_item", err, "list_id", listID)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(created))
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	item, err := store.FindItem(itemID)
	if err != nil {
		h.fail(w, "lists.update_item", err, "item_id", itemID)
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		item.Name = name
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be positive")
			return
		}
		item.Quantity = *req.Quantity
	}
	if !validPrice(req.EstimatedPrice) || !validPrice(req.ActualPrice) {
		writeError(w, http.StatusBadRequest, "invalid_request", "prices must not be negative")
		return
	}
	if req.Category != nil {
		item.Category = trimmedOrNil(req.Category)
	}
	if req.Unit != nil {
		if unit := strings.TrimSpace(*req.Unit); unit != "" {
			item.Unit = unit
		}
	}
	if req.EstimatedPrice != nil {
		item.EstimatedPrice = req.EstimatedPrice
	}
	if req.ActualPrice != nil {
		item.ActualPrice = req.ActualPrice
	}
	if req.ClearActualPrice {
		item.ActualPrice = nil
	}
	if req.IsPurchased != nil {
		item.IsPurchased = *req.IsPurchased
	}
	if req.Notes != nil {
		item.Notes = trimmedOrNil(req.Notes)
	}
	if req.Barcode != nil {
		item.Barcode = trimmedOrNil(req.Barcode)
	}

	updated, err := store.UpdateItem(r.Context(), item)
	if err != nil {
		h.fail(w, "lists.update_item", err, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(updated))
}

func (h *Handlers) TogglePurchased(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	item, err := store.FindItem(itemID)
	if err != nil {
		h.fail(w, "lists.toggle_purchased", err, "item_id", itemID)
		return
	}

	updated, err := store.TogglePurchased(r.Context(), item)
	if err != nil {
		h.fail(w, "lists.toggle_purchased", err, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(updated))
}

func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	item, err := store.FindItem(itemID)
	if err != nil {
		h.fail(w, "lists.delete_item", err, "item_id", itemID)
		return
	}

	if err := store.DeleteItem(r.Context(), item); err != nil {
		h.fail(w, "lists.delete_item", err, "item_id", itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
