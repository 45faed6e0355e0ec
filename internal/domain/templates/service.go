package templates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"smartshopping-go/internal/domain/lists"
	"smartshopping-go/internal/domain/remote"
	"smartshopping-go/internal/domain/session"
	"smartshopping-go/internal/domain/shopping"
	"smartshopping-go/pkg/logger"
)

// ListCreator is the part of the list store a template is instantiated into.
type ListCreator interface {
	CreateList(ctx context.Context, input lists.CreateListInput) (shopping.List, error)
	CreateItem(ctx context.Context, item shopping.Item, listID string) (shopping.Item, error)
}

type Options struct {
	Builtin  []shopping.Template
	CacheTTL time.Duration
}

type CreateTemplateInput struct {
	Name        string
	Description *string
	Category    string
	IsPublic    bool
	Items       []shopping.TemplateItem
}

type Service struct {
	remote   remote.DataService
	sessions session.Provider
	cache    Cache
	log      logger.Logger
	builtin  []shopping.Template
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(ds remote.DataService, sessions session.Provider, cache Cache, log logger.Logger, opts Options) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	builtin := make([]shopping.Template, len(opts.Builtin))
	for idx := range opts.Builtin {
		builtin[idx] = opts.Builtin[idx].Clone()
		builtin[idx].Source = shopping.SourceBuiltin
	}
	return &Service{
		remote:   ds,
		sessions: sessions,
		cache:    cache,
		log:      log,
		builtin:  builtin,
		cacheTTL: opts.CacheTTL,
		now:      time.Now,
	}
}

func (s *Service) Builtin() []shopping.Template {
	return cloneTemplates(s.builtin)
}

// FetchTemplates returns the user's stored templates, newest first.
func (s *Service) FetchTemplates(ctx context.Context) ([]shopping.Template, error) {
	userID, err := session.Require(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.GetByUserID(userID); ok {
		return cached, nil
	}

	var records []shopping.TemplateRecord
	query := remote.Where(remote.Eq("user_id", userID)).OrderBy("created_at", true)
	if err := s.remote.Select(ctx, remote.TableTemplates, query, &records); err != nil {
		s.log.BusinessError("templates.fetch: remote call failed", err, "user_id", userID)
		return nil, &lists.RemoteError{Op: "load templates", Err: err}
	}

	templates := make([]shopping.Template, 0, len(records))
	for _, record := range records {
		templates = append(templates, shopping.TemplateFromRecord(record))
	}

	s.cache.SetByUserID(userID, templates, s.cacheTTL)
	return templates, nil
}

// AllTemplates lists the built-ins first, then the user's own. When the
// stored ones cannot be loaded the built-ins are still returned with the
// error.
func (s *Service) AllTemplates(ctx context.Context) ([]shopping.Template, error) {
	all := s.Builtin()
	persisted, err := s.FetchTemplates(ctx)
	if err != nil {
		return all, err
	}
	return append(all, persisted...), nil
}

// Find looks a template up by id among built-ins and the user's own.
func (s *Service) Find(ctx context.Context, templateID string) (shopping.Template, error) {
	for _, template := range s.builtin {
		if template.ID == templateID {
			return template.Clone(), nil
		}
	}

	persisted, err := s.FetchTemplates(ctx)
	if err != nil {
		return shopping.Template{}, err
	}
	for _, template := range persisted {
		if template.ID == templateID {
			return template, nil
		}
	}
	return shopping.Template{}, ErrTemplateNotFound
}

// Search keeps templates whose name, description or category contains query,
// ignoring case. An empty query keeps everything.
func Search(templates []shopping.Template, query string) []shopping.Template {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return templates
	}

	matched := make([]shopping.Template, 0, len(templates))
	for _, template := range templates {
		if strings.Contains(strings.ToLower(template.Name), query) ||
			(template.Description != nil && strings.Contains(strings.ToLower(*template.Description), query)) ||
			strings.Contains(strings.ToLower(template.Category), query) {
			matched = append(matched, template)
		}
	}
	return matched
}

func (s *Service) CreateTemplate(ctx context.Context, input CreateTemplateInput) (shopping.Template, error) {
	userID, err := session.Require(ctx, s.sessions)
	if err != nil {
		return shopping.Template{}, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return shopping.Template{}, ErrInvalidName
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = shopping.DefaultTemplateCategory
	}

	now := s.now()
	template := shopping.Template{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		Category:    category,
		IsPublic:    input.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       make([]shopping.TemplateItem, 0, len(input.Items)),
		Source:      shopping.SourcePersisted,
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Quantity <= 0 {
			item.Quantity = shopping.DefaultQuantity
		}
		template.Items = append(template.Items, item)
	}

	record, err := template.Record()
	if err != nil {
		return shopping.Template{}, err
	}
	if err := s.remote.Insert(ctx, remote.TableTemplates, &record); err != nil {
		s.log.BusinessError("templates.create: remote call failed", err, "user_id", userID)
		return shopping.Template{}, &lists.RemoteError{Op: "create template", Err: err}
	}

	s.cache.DeleteByUserID(userID)
	return shopping.TemplateFromRecord(record), nil
}

func (s *Service) DeleteTemplate(ctx context.Context, template shopping.Template) error {
	if template.IsBuiltin() {
		return ErrBuiltinTemplate
	}
	userID, err := session.Require(ctx, s.sessions)
	if err != nil {
		return err
	}

	if err := s.remote.Delete(ctx, remote.TableTemplates, []remote.Filter{remote.Eq("id", template.ID)}); err != nil {
		s.log.BusinessError("templates.delete: remote call failed", err, "template_id", template.ID)
		return &lists.RemoteError{Op: "delete template", Err: err}
	}

	s.cache.DeleteByUserID(userID)
	return nil
}

func (s *Service) ToggleFavorite(ctx context.Context, template shopping.Template) (shopping.Template, error) {
	if template.IsBuiltin() {
		return template, ErrBuiltinTemplate
	}
	return s.update(ctx, template, "toggle favorite", func(t *shopping.Template) map[string]any {
		t.IsFavorite = !t.IsFavorite
		return map[string]any{"is_favorite": t.IsFavorite}
	})
}

// IncrementTimesUsed bumps the usage counter of a stored template. Built-ins
// do not track usage.
func (s *Service) IncrementTimesUsed(ctx context.Context, template shopping.Template) (shopping.Template, error) {
	if template.IsBuiltin() {
		return template, nil
	}
	return s.update(ctx, template, "update template usage", func(t *shopping.Template) map[string]any {
		t.TimesUsed++
		return map[string]any{"times_used": t.TimesUsed}
	})
}

func (s *Service) update(ctx context.Context, template shopping.Template, op string, mutate func(*shopping.Template) map[string]any) (shopping.Template, error) {
	userID, err := session.Require(ctx, s.sessions)
	if err != nil {
		return template, err
	}

	updated := template.Clone()
	values := mutate(&updated)
	updated.UpdatedAt = s.now()
	values["updated_at"] = updated.UpdatedAt

	if err := s.remote.Update(ctx, remote.TableTemplates, values, []remote.Filter{remote.Eq("id", template.ID)}); err != nil {
		s.log.BusinessError("templates.update: remote call failed", err, "op", op, "template_id", template.ID)
		return template, &lists.RemoteError{Op: op, Err: err}
	}

	s.cache.DeleteByUserID(userID)
	return updated, nil
}

// UseTemplate creates a list named listName (the template name when empty)
// holding one item per template entry, then counts the use. It stops at the
// first failing step; a list created before the failure is kept.
func (s *Service) UseTemplate(ctx context.Context, store ListCreator, template shopping.Template, listName string) (shopping.List, error) {
	userID, err := session.Require(ctx, s.sessions)
	if err != nil {
		return shopping.List{}, err
	}

	name := strings.TrimSpace(listName)
	if name == "" {
		name = template.Name
	}

	list, err := store.CreateList(ctx, lists.CreateListInput{
		Name:        name,
		Description: template.Description,
	})
	if err != nil {
		return shopping.List{}, err
	}

	now := s.now()
	for _, entry := range template.Items {
		item, err := store.CreateItem(ctx, entry.ToItem(list.ID, userID, now), list.ID)
		if err != nil {
			return list, err
		}
		list.Items = append(list.Items, item)
	}
	list.RecomputeTotal()

	if _, err := s.IncrementTimesUsed(ctx, template); err != nil {
		return list, err
	}

	s.log.Info("templates.use: list created from template", "template_id", template.ID, "list_id", list.ID, "items", len(template.Items))
	return list, nil
}

func cloneTemplates(templates []shopping.Template) []shopping.Template {
	cloned := make([]shopping.Template, len(templates))
	for idx := range templates {
		cloned[idx] = templates[idx].Clone()
	}
	return cloned
}
