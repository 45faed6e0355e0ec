package templates

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"smartshopping-go/internal/domain/session"
	"smartshopping-go/internal/domain/shopping"
	templatesdomain "smartshopping-go/internal/domain/templates"
	commonhandler "smartshopping-go/internal/transport/httpserver/handler/common"
	"smartshopping-go/internal/transport/httpserver/middleware"
)

type templateItemRequest struct {
	Name           string   `json:"name"`
	Category       *string  `json:"category"`
	Quantity       int      `json:"quantity"`
	EstimatedPrice *float64 `json:"estimated_price"`
	Notes          *string  `json:"notes"`
}

type createTemplateRequest struct {
	Name        string                `json:"name"`
	Description *string               `json:"description"`
	Category    string                `json:"category"`
	IsPublic    bool                  `json:"is_public"`
	Items       []templateItemRequest `json:"items"`
}

type useTemplateRequest struct {
	ListName string `json:"list_name"`
}

type templateResponse struct {
	shopping.Template
	TotalItems int `json:"total_items"`
}

type templateListResponse struct {
	Items []templateResponse `json:"items"`
	Total int                `json:"total"`
	Error *string            `json:"error"`
}

type useTemplateResponse struct {
	ListID    string `json:"list_id"`
	ListName  string `json:"list_name"`
	ItemCount int    `json:"item_count"`
}

func toTemplateResponse(template shopping.Template) templateResponse {
	return templateResponse{Template: template, TotalItems: template.TotalItems()}
}

// ListTemplates always answers with the built-ins. A failure to load the
// user's own templates is reported in the error field.
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	all, err := h.Templates.AllTemplates(r.Context())
	response := templateListResponse{}
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
			return
		}
		h.log.Warn("templates.list: serving built-ins only", "err", err)
		message := err.Error()
		response.Error = &message
	}

	matched := templatesdomain.Search(all, r.URL.Query().Get("q"))
	response.Items = make([]templateResponse, 0, len(matched))
	for _, template := range matched {
		response.Items = append(response.Items, toTemplateResponse(template))
	}
	response.Total = len(response.Items)
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	input := templatesdomain.CreateTemplateInput{
		Name:        req.Name,
		Description: commonhandler.TrimmedOrNil(req.Description),
		Category:    req.Category,
		IsPublic:    req.IsPublic,
		Items:       make([]shopping.TemplateItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		if item.EstimatedPrice != nil && *item.EstimatedPrice < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "prices must not be negative")
			return
		}
		input.Items = append(input.Items, shopping.TemplateItem{
			Name:           strings.TrimSpace(item.Name),
			Category:       commonhandler.TrimmedOrNil(item.Category),
			Quantity:       item.Quantity,
			EstimatedPrice: item.EstimatedPrice,
			Notes:          commonhandler.TrimmedOrNil(item.Notes),
		})
	}

	template, err := h.Templates.CreateTemplate(r.Context(), input)
	if err != nil {
		h.fail(w, "templates.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTemplateResponse(template))
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "template_id")
	template, err := h.Templates.Find(r.Context(), templateID)
	if err != nil {
		h.fail(w, "templates.delete", err, "template_id", templateID)
		return
	}

	if err := h.Templates.DeleteTemplate(r.Context(), template); err != nil {
		h.fail(w, "templates.delete", err, "template_id", templateID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "template_id")
	template, err := h.Templates.Find(r.Context(), templateID)
	if err != nil {
		h.fail(w, "templates.toggle_favorite", err, "template_id", templateID)
		return
	}

	updated, err := h.Templates.ToggleFavorite(r.Context(), template)
	if err != nil {
		h.fail(w, "templates.toggle_favorite", err, "template_id", templateID)
		return
	}

	writeJSON(w, http.StatusOK, toTemplateResponse(updated))
}

func (h *Handlers) UseTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req useTemplateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
			return
		}
	}

	templateID := chi.URLParam(r, "template_id")
	template, err := h.Templates.Find(r.Context(), templateID)
	if err != nil {
		h.fail(w, "templates.use", err, "template_id", templateID)
		return
	}

	list, err := h.Templates.UseTemplate(r.Context(), h.Lists.ForUser(user.ID), template, req.ListName)
	if err != nil {
		h.fail(w, "templates.use", err, "template_id", templateID, "list_id", list.ID)
		return
	}

	writeJSON(w, http.StatusCreated, useTemplateResponse{
		ListID:    list.ID,
		ListName:  list.Name,
		ItemCount: len(list.Items),
	})
}
