package lists

import (
	"context"
	"errors"
	"sync"
	"time"

	"smartshopping-go/internal/domain/remote"
	"smartshopping-go/internal/domain/session"
	"smartshopping-go/internal/domain/shopping"
	"smartshopping-go/pkg/logger"
)

const notAuthenticatedMessage = "Not authenticated"

// Snapshot is the state observers and readers see.
type Snapshot struct {
	Lists   []shopping.List
	Err     string
	Loading bool
	Fetched bool
}

type Observer func(Snapshot)

type CreateListInput struct {
	Name        string
	Description *string
	Store       *string
	Budget      *float64
}

// Store owns the in-memory collection of the current user's lists and keeps
// it in line with the data service and the cache.
//
// Every mutating operation performs its remote call first and only touches
// local state once that call succeeded. The mutex guards local state only and
// is never held across a remote call, so when two operations race the one
// whose remote call returns last wins.
type Store struct {
	remote   remote.DataService
	sessions session.Provider
	cache    Cache
	log      logger.Logger
	now      func() time.Time

	mu      sync.RWMutex
	lists   []shopping.List
	errMsg  string
	loading bool
	fetched bool

	observersMu  sync.Mutex
	observers    map[int]Observer
	nextObserver int
}

// NewStore builds a store and seeds it from the cache.
func NewStore(ds remote.DataService, sessions session.Provider, cache Cache, log logger.Logger) *Store {
	if cache == nil {
		cache = noopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Store{
		remote:    ds,
		sessions:  sessions,
		cache:     cache,
		log:       log,
		now:       time.Now,
		lists:     []shopping.List{},
		observers: make(map[int]Observer),
	}

	if cached := cache.Load(); len(cached) > 0 {
		s.lists = shopping.CloneLists(cached)
		log.Debug("lists.store: loaded lists from cache", "count", len(cached))
	}

	return s
}

// Lists returns a copy of the current collection. It never needs a session.
func (s *Store) Lists() []shopping.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return shopping.CloneLists(s.lists)
}

func (s *Store) List(listID string) (shopping.List, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.lists {
		if list.ID == listID {
			return list.Clone(), true
		}
	}
	return shopping.List{}, false
}

func (s *Store) Item(itemID string) (shopping.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.lists {
		if idx := list.IndexOfItem(itemID); idx >= 0 {
			return list.Items[idx].Clone(), true
		}
	}
	return shopping.Item{}, false
}

// FindList is List reporting a missing id as ErrListNotFound.
func (s *Store) FindList(listID string) (shopping.List, error) {
	list, ok := s.List(listID)
	if !ok {
		return shopping.List{}, ErrListNotFound
	}
	return list, nil
}

// FindItem is Item reporting a missing id as ErrItemNotFound.
func (s *Store) FindItem(itemID string) (shopping.Item, error) {
	item, ok := s.Item(itemID)
	if !ok {
		return shopping.Item{}, ErrItemNotFound
	}
	return item, nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer. It is called once per successful mutation
// with the post-mutation state, and once per failed operation with Err set.
func (s *Store) Subscribe(observer Observer) func() {
	s.observersMu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = observer
	s.observersMu.Unlock()

	return func() {
		s.observersMu.Lock()
		delete(s.observers, id)
		s.observersMu.Unlock()
	}
}

// FetchLists replaces the collection with the user's lists from the data
// service, newest first. On failure the last known collection and the cache
// are kept.
func (s *Store) FetchLists(ctx context.Context) error {
	userID, err := s.begin(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var records []shopping.ListRecord
	query := remote.Where(remote.Eq("user_id", userID)).OrderBy("created_at", true)
	if err := s.remote.Select(ctx, remote.TableLists, query, &records); err != nil {
		return s.fetchFailed(userID, err)
	}

	fetched := make([]shopping.List, 0, len(records))
	for _, record := range records {
		var items []shopping.Item
		if err := s.remote.Select(ctx, remote.TableItems, remote.Where(remote.Eq("list_id", record.ID)), &items); err != nil {
			return s.fetchFailed(userID, err)
		}
		fetched = append(fetched, shopping.ListFromRecord(record, items))
	}

	s.commit(func(current []shopping.List) ([]shopping.List, bool) {
		s.fetched = true
		return fetched, true
	})
	s.log.Debug("lists.fetch: lists loaded", "user_id", userID, "count", len(fetched))
	return nil
}

// Refresh is the pull-to-refresh entry point.
func (s *Store) Refresh(ctx context.Context) error {
	return s.FetchLists(ctx)
}

// CreateList inserts a new empty list remotely and puts the stored row first.
// Validating the name is up to the caller.
func (s *Store) CreateList(ctx context.Context, input CreateListInput) (shopping.List, error) {
	userID, err := s.begin(ctx)
	if err != nil {
		return shopping.List{}, err
	}

	list := shopping.NewList(shopping.NewListInput{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Store:       input.Store,
		Budget:      input.Budget,
	}, s.now())

	record := list.Record()
	if err := s.remote.Insert(ctx, remote.TableLists, &record); err != nil {
		return shopping.List{}, s.remoteFailed("create list", err, "user_id", userID)
	}
	list = shopping.ListFromRecord(record, nil)

	s.commit(func(current []shopping.List) ([]shopping.List, bool) {
		next := make([]shopping.List, 0, len(current)+1)
		next = append(next, list.Clone())
		return append(next, current...), true
	})
	return list, nil
}

// UpdateList writes the mutable list fields and replaces the local copy. The
// remote call happens even when the list is not held locally.
func (s *Store) UpdateList(ctx context.Context, list shopping.List) error {
	if _, err := s.begin(ctx); err != nil {
		return err
	}

	if err := s.remote.Update(ctx, remote.TableLists, list.UpdateValues(), []remote.Filter{remote.Eq("id", list.ID)}); err != nil {
		return s.remoteFailed("update list", err, "list_id", list.ID)
	}

	s.commit(func(current []shopping.List) ([]shopping.List, bool) {
		for idx := range current {
			if current[idx].ID == list.ID {
				current[idx] = list.Clone()
				return current, true
			}
		}
		return current, false
	})
	return nil
}

// ToggleListCompletion flips IsCompleted together with CompletedAt.
func (s *Store) ToggleListCompletion(ctx context.Context, list shopping.List) (shopping.List, error) {
	updated := list.Clone()
	updated.SetCompleted(!list.IsCompleted, s.now())
	if err := s.UpdateList(ctx, updated); err != nil {
		return list, err
	}
	return updated, nil
}

// DeleteList removes the list's items, then the list, and only then the
// local copy. If the second step fails the backend keeps an empty list and a
// PartialCascadeError is returned; nothing is compensated.
func (s *Store) DeleteList(ctx context.Context, list shopping.List) error {
	if _, err := s.begin(ctx); err != nil {
		return err
	}

	if err := s.remote.Delete(ctx, remote.TableItems, []remote.Filter{remote.Eq("list_id", list.ID)}); err != nil {
		return s.remoteFailed("delete list items", err, "list_id", list.ID)
	}

	if err := s.remote.Delete(ctx, remote.TableLists, []remote.Filter{remote.Eq("id", list.ID)}); err != nil {
		cascadeErr := &PartialCascadeError{ListID: list.ID, Err: err}
		s.log.InternalError("lists.delete_list: items removed but list delete failed", err, "list_id", list.ID)
		s.fail(cascadeErr.Error())
		return cascadeErr
	}

	s.commit(func(current []shopping.List) ([]shopping.List, bool) {
		next := make([]shopping.List, 0, len(current))
		removed := false
		for _, existing := range current {
			if existing.ID == list.ID {
				removed = true
				continue
			}
			next = append(next, existing)
		}
		return next, removed
	})
	return nil
}

// CreateItem inserts the item under listID, whatever ListID it carried, and
// appends the stored row to that list.
func (s *Store) CreateItem(ctx context.Context, item shopping.Item, listID string) (shopping.Item, error) {
	userID, err := s.begin(ctx)
	if err != nil {
		return shopping.Item{}, err
	}

	stored := item.Clone()
	stored.ListID = listID
	stored.ApplyDefaults(userID, s.now())

	if err := s.remote.Insert(ctx, remote.TableItems, &stored); err != nil {
		return shopping.Item{}, s.remoteFailed("create item", err, "list_id", listID)
	}

	s.commit(func(current []shopping.List) ([]shopping.List, bool) {
		for idx := range current {
			if current[idx].ID == listID {
				current[idx].Items = append(current[idx].Items, stored.Clone())
				current[idx].RecomputeTotal()
				return current, true
			}
		}
		return current, false
	})
	return stored, nil
}

// UpdateItem writes the item and replaces it in the first list holding it.
// An item unknown locally is still written remotely.
func (s *Store) UpdateItem(ctx context.Context, item shopping.Item) (shopping.Item, error) {
	if _, err := s.begin(ctx); err != nil {
		return shopping.Item{}, err
	}

	updated := item.Clone()
	updated.Touch(s.now())

	if err := s.remote.Update(ctx, remote.TableItems, updated.UpdateValues(), []remote.Filter{remote.Eq("id", updated.ID)}); err != nil {
		return shopping.Item{}, s.remoteFailed("update item", err, "item_id", updated.ID)
	}

	s.commit(func(current []shopping.List) ([]shopping.List, bool) {
		for idx := range current {
			if itemIdx := current[idx].IndexOfItem(updated.ID); itemIdx >= 0 {
				current[idx].Items[itemIdx] = updated.Clone()
				current[idx].RecomputeTotal()
				return current, true
			}
		}
		return current, false
	})
	return updated, nil
}

func (s *Store) TogglePurchased(ctx context.Context, item shopping.Item) (shopping.Item, error) {
	item.IsPurchased = !item.IsPurchased
	return s.UpdateItem(ctx, item)
}

func (s *Store) SetActualPrice(ctx context.Context, item shopping.Item, price *float64) (shopping.Item, error) {
	if price != nil {
		value := *price
		price = &value
	}
	item.ActualPrice = price
	return s.UpdateItem(ctx, item)
}

// DeleteItem deletes the item remotely and from every list holding it.
func (s *Store) DeleteItem(ctx context.Context, item shopping.Item) error {
	if _, err := s.begin(ctx); err != nil {
		return err
	}

	if err := s.remote.Delete(ctx, remote.TableItems, []remote.Filter{remote.Eq("id", item.ID)}); err != nil {
		return s.remoteFailed("delete item", err, "item_id", item.ID)
	}

	s.commit(func(current []shopping.List) ([]shopping.List, bool) {
		changed := false
		for idx := range current {
			kept := make([]shopping.Item, 0, len(current[idx].Items))
			for _, existing := range current[idx].Items {
				if existing.ID != item.ID {
					kept = append(kept, existing)
				}
			}
			if len(kept) != len(current[idx].Items) {
				current[idx].Items = kept
				current[idx].RecomputeTotal()
				changed = true
			}
		}
		return current, changed
	})
	return nil
}

// ClearAllData drops the local collection and the cache. The backend is not
// touched.
func (s *Store) ClearAllData() {
	s.mu.Lock()
	s.lists = []shopping.List{}
	s.errMsg = ""
	s.fetched = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.cache.Clear()
	s.notify(snapshot)
}

func (s *Store) begin(ctx context.Context) (string, error) {
	userID, err := session.Require(ctx, s.sessions)
	if err != nil {
		s.fail(notAuthenticatedMessage)
		return "", err
	}

	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	return userID, nil
}

func (s *Store) fetchFailed(userID string, err error) error {
	s.log.BusinessError("lists.fetch: remote call failed, keeping last known lists", err, "user_id", userID)
	remoteErr := &RemoteError{Op: "load lists", Err: err}
	s.fail("Failed to load lists: " + err.Error())
	return remoteErr
}

func (s *Store) remoteFailed(op string, err error, args ...any) error {
	s.log.BusinessError("lists.store: remote call failed", err, append([]any{"op", op}, args...)...)
	remoteErr := &RemoteError{Op: op, Err: err}
	s.fail(remoteErr.Error())
	return remoteErr
}

func (s *Store) fail(message string) {
	s.mu.Lock()
	s.errMsg = message
	s.loading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

// commit applies a local mutation. When mutate reports a change the result is
// cached and observers are notified once.
func (s *Store) commit(mutate func(current []shopping.List) ([]shopping.List, bool)) {
	s.mu.Lock()
	next, changed := mutate(s.lists)
	s.lists = next
	s.loading = false
	if !changed {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.cache.Save(snapshot.Lists)
	s.notify(snapshot)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Lists:   shopping.CloneLists(s.lists),
		Err:     s.errMsg,
		Loading: s.loading,
		Fetched: s.fetched,
	}
}

func (s *Store) notify(snapshot Snapshot) {
	s.observersMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, observer := range s.observers {
		observers = append(observers, observer)
	}
	s.observersMu.Unlock()

	for _, observer := range observers {
		copied := snapshot
		copied.Lists = shopping.CloneLists(snapshot.Lists)
		observer(copied)
	}
}

// IsRemoteFailure reports whether err came from the data service.
func IsRemoteFailure(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}
