package lists

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	listsdomain "smartshopping-go/internal/domain/lists"
	"smartshopping-go/internal/transport/httpserver/middleware"
)

type createListRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Store       *string  `json:"store"`
	Budget      *float64 `json:"budget"`
}

type updateListRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Store       *string  `json:"store"`
	Budget      *float64 `json:"budget"`
	ClearBudget bool     `json:"clear_budget"`
	IsCompleted *bool    `json:"is_completed"`
}

func (h *Handlers) ListLists(w http.ResponseWriter, r *http.Request) {
	refresh, err := parseBoolParam(r.URL.Query().Get("refresh"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid refresh")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	store := h.Lists.ForUser(user.ID)
	if refresh || !store.Snapshot().Fetched {
		h.load(r.Context(), store, user.ID)
	}

	writeJSON(w, http.StatusOK, toListListResponse(store.Snapshot()))
}

func (h *Handlers) RefreshLists(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	store := h.Lists.ForUser(user.ID)
	if err := store.Refresh(r.Context()); err != nil {
		h.fail(w, "lists.refresh", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toListListResponse(store.Snapshot()))
}

// ClearCache wipes the caller's local state and cache, as on sign out. The
// next request starts from a fresh store.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	h.Lists.ForUser(user.ID).ClearAllData()
	h.Lists.Forget(user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	listID := chi.URLParam(r, "list_id")
	list, err := store.FindList(listID)
	if err != nil {
		h.fail(w, "lists.get_list", err, "list_id", listID)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(list))
}

func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	var req createListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if req.Budget != nil && *req.Budget < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "budget must not be negative")
		return
	}

	list, err := store.CreateList(r.Context(), listsdomain.CreateListInput{
		Name:        name,
		Description: trimmedOrNil(req.Description),
		Store:       trimmedOrNil(req.Store),
		Budget:      req.Budget,
	})
	if err != nil {
		h.fail(w, "lists.create_list", err)
		return
	}

	writeJSON(w, http.StatusCreated, toListResponse(list))
}

func (h *Handlers) UpdateList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	listID := chi.URLParam(r, "list_id")
	list, err := store.FindList(listID)
	if err != nil {
		h.fail(w, "lists.update_list", err, "list_id", listID)
		return
	}

	var req updateListRequest
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
		list.Name = name
	}
	if req.Description != nil {
		list.Description = trimmedOrNil(req.Description)
	}
	if req.Store != nil {
		list.Store = trimmedOrNil(req.Store)
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "budget must not be negative")
			return
		}
		list.Budget = req.Budget
	}
	if req.ClearBudget {
		list.Budget = nil
	}

	if req.IsCompleted != nil && *req.IsCompleted != list.IsCompleted {
		_, err = store.ToggleListCompletion(r.Context(), list)
	} else {
		err = store.UpdateList(r.Context(), list)
	}
	if err != nil {
		h.fail(w, "lists.update_list", err, "list_id", listID)
		return
	}

	updated, found := store.List(listID)
	if !found {
		updated = list
	}
	writeJSON(w, http.StatusOK, toListResponse(updated))
}

func (h *Handlers) ToggleListCompletion(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	listID := chi.URLParam(r, "list_id")
	list, err := store.FindList(listID)
	if err != nil {
		h.fail(w, "lists.toggle_completion", err, "list_id", listID)
		return
	}

	updated, err := store.ToggleListCompletion(r.Context(), list)
	if err != nil {
		h.fail(w, "lists.toggle_completion", err, "list_id", listID)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(updated))
}

func (h *Handlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.storeFor(w, r)
	if !ok {
		return
	}

	listID := chi.URLParam(r, "list_id")
	list, err := store.FindList(listID)
	if err != nil {
		h.fail(w, "lists.delete_list", err, "list_id", listID)
		return
	}

	if err := store.DeleteList(r.Context(), list); err != nil {
		h.fail(w, "lists.delete_list", err, "list_id", listID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
