package lists

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"smartshopping-go/internal/domain/remote"
	"smartshopping-go/internal/domain/session"
	"smartshopping-go/internal/domain/shopping"
)

var errBackendDown = errors.New("backend unavailable")

func floatPtr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFetchListsBuildsTotalsAndCaches(t *testing.T) {
	ds := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ds.lists = []shopping.ListRecord{
		{ID: "L2", UserID: "user-1", Name: "Empty", CreatedAt: base},
		{ID: "L1", UserID: "user-1", Name: "Weekly", CreatedAt: base.Add(time.Hour)},
		{ID: "other", UserID: "user-2", Name: "Not mine", CreatedAt: base},
	}
	ds.items = []shopping.Item{
		{ID: "a", ListID: "L1", Quantity: 1, ActualPrice: floatPtr(2), IsPurchased: true},
		{ID: "b", ListID: "L1", Quantity: 2, EstimatedPrice: floatPtr(1)},
		{ID: "c", ListID: "L1", Quantity: 1},
	}
	cache := &fakeCache{}
	store := newTestStore(ds, cache)

	if err := store.FetchLists(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	lists := store.Lists()
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	if lists[0].ID != "L1" || lists[1].ID != "L2" {
		t.Fatalf("expected newest first, got %s, %s", lists[0].ID, lists[1].ID)
	}
	if len(lists[0].Items) != 3 {
		t.Fatalf("expected 3 items in L1, got %d", len(lists[0].Items))
	}
	// 2.00 purchased + 1.00 x2 estimated
	if !almostEqual(lists[0].TotalSpent, 4) {
		t.Fatalf("expected L1 total 4, got %v", lists[0].TotalSpent)
	}
	if lists[1].TotalSpent != 0 {
		t.Fatalf("expected L2 total 0, got %v", lists[1].TotalSpent)
	}
	if cache.saves != 1 || len(cache.lists) != 2 {
		t.Fatalf("expected cache to hold both lists, got saves=%d lists=%d", cache.saves, len(cache.lists))
	}

	snapshot := store.Snapshot()
	if !snapshot.Fetched || snapshot.Loading || snapshot.Err != "" {
		t.Fatalf("unexpected snapshot state %+v", snapshot)
	}
}

func TestFetchListsFailureKeepsCachedLists(t *testing.T) {
	ds := newFakeRemote()
	ds.fail["select shopping_lists"] = errBackendDown
	cache := &fakeCache{lists: []shopping.List{{ID: "cached", Name: "From cache", Items: []shopping.Item{}}}}
	store := newTestStore(ds, cache)

	err := store.FetchLists(context.Background())
	if !IsRemoteFailure(err) {
		t.Fatalf("expected remote failure, got %v", err)
	}
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}

	lists := store.Lists()
	if len(lists) != 1 || lists[0].ID != "cached" {
		t.Fatalf("expected cached list to survive, got %+v", lists)
	}
	if cache.saves != 0 {
		t.Fatalf("expected no cache overwrite, got %d saves", cache.saves)
	}
	if store.Snapshot().Err == "" {
		t.Fatalf("expected error message to be surfaced")
	}
}

func TestOperationsWithoutSessionSkipRemote(t *testing.T) {
	ds := newFakeRemote()
	store := NewStore(ds, session.Static(""), &fakeCache{}, nil)

	if err := store.FetchLists(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := store.CreateList(context.Background(), CreateListInput{Name: "x"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := store.UpdateItem(context.Background(), shopping.Item{ID: "a"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if len(ds.calls) != 0 {
		t.Fatalf("expected no remote calls, got %v", ds.calls)
	}
	if store.Snapshot().Err != notAuthenticatedMessage {
		t.Fatalf("expected %q, got %q", notAuthenticatedMessage, store.Snapshot().Err)
	}
}

func TestCreateListPrependsStoredList(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	seedLists(store, shopping.List{ID: "old", UserID: "user-1", Items: []shopping.Item{}})

	created, err := store.CreateList(context.Background(), CreateListInput{Name: "Party", Budget: floatPtr(50)})
	if err != nil {
		t.Fatalf("create list failed: %v", err)
	}
	if created.ID == "" || created.UserID != "user-1" || created.IsCompleted || created.TotalSpent != 0 {
		t.Fatalf("unexpected created list %+v", created)
	}

	lists := store.Lists()
	if len(lists) != 2 || lists[0].ID != created.ID {
		t.Fatalf("expected new list first, got %+v", lists)
	}
	if len(ds.lists) != 1 || ds.lists[0].Name != "Party" {
		t.Fatalf("expected remote insert, got %+v", ds.lists)
	}
}

func TestCreateListFailureLeavesStateUntouched(t *testing.T) {
	ds := newFakeRemote()
	ds.fail["insert shopping_lists"] = errBackendDown
	cache := &fakeCache{}
	store := newTestStore(ds, cache)

	if _, err := store.CreateList(context.Background(), CreateListInput{Name: "Party"}); !IsRemoteFailure(err) {
		t.Fatalf("expected remote failure, got %v", err)
	}
	if len(store.Lists()) != 0 || cache.saves != 0 {
		t.Fatalf("expected no local change, got lists=%d saves=%d", len(store.Lists()), cache.saves)
	}
}

func TestCreateItemAddsToTotal(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	seedLists(store, shopping.List{
		ID:         "L1",
		UserID:     "user-1",
		TotalSpent: 4,
		Items: []shopping.Item{
			{ID: "a", ListID: "L1", Quantity: 1, ActualPrice: floatPtr(2), IsPurchased: true},
			{ID: "b", ListID: "L1", Quantity: 2, EstimatedPrice: floatPtr(1)},
		},
	})

	created, err := store.CreateItem(context.Background(), shopping.Item{Name: "Cheese", Quantity: 2, EstimatedPrice: floatPtr(5)}, "L1")
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if created.ID == "" || created.ListID != "L1" || created.UserID != "user-1" || created.Unit != shopping.DefaultUnit {
		t.Fatalf("unexpected created item %+v", created)
	}

	list, _ := store.List("L1")
	if !almostEqual(list.TotalSpent, 14) {
		t.Fatalf("expected total to grow by 10 to 14, got %v", list.TotalSpent)
	}
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(list.Items))
	}
}

func TestCreateItemUsesStoredRecord(t *testing.T) {
	ds := newFakeRemote()
	serverTime := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	ds.stamp = func(item *shopping.Item) {
		item.CreatedAt = serverTime
		item.UpdatedAt = serverTime
	}
	store := newTestStore(ds, &fakeCache{})
	seedLists(store, shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{}})

	created, err := store.CreateItem(context.Background(), shopping.Item{Name: "Bread"}, "L1")
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if !created.CreatedAt.Equal(serverTime) {
		t.Fatalf("expected server timestamp, got %v", created.CreatedAt)
	}
	item, ok := store.Item(created.ID)
	if !ok || !item.CreatedAt.Equal(serverTime) {
		t.Fatalf("expected stored item with server timestamp, got %+v", item)
	}
}

func TestUpdateItemReplacesAndRefreshesTimestamp(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedLists(store, shopping.List{
		ID:     "L1",
		UserID: "user-1",
		Items: []shopping.Item{
			{ID: "a", ListID: "L1", Quantity: 1, EstimatedPrice: floatPtr(3), CreatedAt: created, UpdatedAt: created},
		},
	})

	item, _ := store.Item("a")
	item.Quantity = 3
	updated, err := store.UpdateItem(context.Background(), item)
	if err != nil {
		t.Fatalf("update item failed: %v", err)
	}
	if !updated.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected updated_at %v, got %v", testNow, updated.UpdatedAt)
	}

	list, _ := store.List("L1")
	if list.Items[0].Quantity != 3 || !almostEqual(list.TotalSpent, 9) {
		t.Fatalf("expected quantity 3 and total 9, got %+v", list)
	}
}

func TestUpdateItemUnknownIDStillCallsRemote(t *testing.T) {
	ds := newFakeRemote()
	cache := &fakeCache{}
	store := newTestStore(ds, cache)
	seedLists(store, shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{{ID: "a", ListID: "L1", Quantity: 1}}})

	notified := 0
	store.Subscribe(func(Snapshot) { notified++ })

	if _, err := store.UpdateItem(context.Background(), shopping.Item{ID: "missing", Quantity: 1}); err != nil {
		t.Fatalf("expected no error for unknown item, got %v", err)
	}
	if !ds.called("update shopping_items") {
		t.Fatalf("expected remote update, got %v", ds.calls)
	}
	if cache.saves != 0 || notified != 0 {
		t.Fatalf("expected no local mutation, got saves=%d notified=%d", cache.saves, notified)
	}
}

func TestTogglePurchasedAndSetActualPrice(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	seedLists(store, shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{
		{ID: "a", ListID: "L1", Quantity: 2, EstimatedPrice: floatPtr(1.5)},
	}})

	item, _ := store.Item("a")
	toggled, err := store.TogglePurchased(context.Background(), item)
	if err != nil {
		t.Fatalf("toggle purchased failed: %v", err)
	}
	if !toggled.IsPurchased {
		t.Fatalf("expected purchased item")
	}

	priced, err := store.SetActualPrice(context.Background(), toggled, floatPtr(2.25))
	if err != nil {
		t.Fatalf("set actual price failed: %v", err)
	}
	if priced.ActualPrice == nil || *priced.ActualPrice != 2.25 {
		t.Fatalf("expected actual price 2.25, got %v", priced.ActualPrice)
	}

	list, _ := store.List("L1")
	if !almostEqual(list.TotalSpent, 4.5) {
		t.Fatalf("expected total 4.5, got %v", list.TotalSpent)
	}
}

func TestDeleteItemRecomputesTouchedLists(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	seedLists(store,
		shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{
			{ID: "a", ListID: "L1", Quantity: 1, EstimatedPrice: floatPtr(2)},
			{ID: "b", ListID: "L1", Quantity: 1, EstimatedPrice: floatPtr(3)},
		}},
		shopping.List{ID: "L2", UserID: "user-1", Items: []shopping.Item{
			{ID: "c", ListID: "L2", Quantity: 1, EstimatedPrice: floatPtr(7)},
		}},
	)

	if err := store.DeleteItem(context.Background(), shopping.Item{ID: "a"}); err != nil {
		t.Fatalf("delete item failed: %v", err)
	}

	l1, _ := store.List("L1")
	l2, _ := store.List("L2")
	if len(l1.Items) != 1 || !almostEqual(l1.TotalSpent, 3) {
		t.Fatalf("expected L1 with one item and total 3, got %+v", l1)
	}
	if len(l2.Items) != 1 || !almostEqual(l2.TotalSpent, 7) {
		t.Fatalf("expected L2 untouched, got %+v", l2)
	}
}

func TestSeededListsCarryItemTotals(t *testing.T) {
	store := newTestStore(newFakeRemote(), &fakeCache{})
	seedLists(store, shopping.List{ID: "L2", UserID: "user-1", Items: []shopping.Item{
		{ID: "c", ListID: "L2", Quantity: 1, EstimatedPrice: floatPtr(7)},
	}})

	list, _ := store.List("L2")
	if !almostEqual(list.TotalSpent, 7) {
		t.Fatalf("expected seeded total 7, got %v", list.TotalSpent)
	}
}

func TestCreateItemUsesTargetListID(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	seedLists(store,
		shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{}},
		shopping.List{ID: "L2", UserID: "user-1", Items: []shopping.Item{}},
	)

	created, err := store.CreateItem(context.Background(), shopping.Item{ListID: "L2", Name: "Milk"}, "L1")
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if created.ListID != "L1" {
		t.Fatalf("expected item stored under L1, got %q", created.ListID)
	}
	l1, _ := store.List("L1")
	l2, _ := store.List("L2")
	if len(l1.Items) != 1 || l1.Items[0].ListID != "L1" || len(l2.Items) != 0 {
		t.Fatalf("expected item only in L1, got L1=%+v L2=%+v", l1.Items, l2.Items)
	}
}

func TestFindListAndItemReportNotFound(t *testing.T) {
	store := newTestStore(newFakeRemote(), &fakeCache{})
	seedLists(store, shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{{ID: "a", ListID: "L1", Quantity: 1}}})

	if list, err := store.FindList("L1"); err != nil || list.ID != "L1" {
		t.Fatalf("expected L1, got %+v / %v", list, err)
	}
	if _, err := store.FindList("missing"); !errors.Is(err, ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound, got %v", err)
	}
	if item, err := store.FindItem("a"); err != nil || item.ID != "a" {
		t.Fatalf("expected item a, got %+v / %v", item, err)
	}
	if _, err := store.FindItem("missing"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteListItemStepFailureKeepsList(t *testing.T) {
	ds := newFakeRemote()
	ds.fail["delete shopping_items"] = errBackendDown
	cache := &fakeCache{}
	store := newTestStore(ds, cache)
	list := shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{{ID: "a", ListID: "L1", Quantity: 1}}}
	seedLists(store, list)

	err := store.DeleteList(context.Background(), list)
	if !IsRemoteFailure(err) {
		t.Fatalf("expected remote failure, got %v", err)
	}
	if ds.called("delete shopping_lists") {
		t.Fatalf("expected list delete to be skipped")
	}

	kept, ok := store.List("L1")
	if !ok || len(kept.Items) != 1 {
		t.Fatalf("expected L1 unchanged, got %+v", kept)
	}
	if cache.saves != 0 {
		t.Fatalf("expected no cache write, got %d", cache.saves)
	}
}

func TestDeleteListPartialCascade(t *testing.T) {
	ds := newFakeRemote()
	ds.fail["delete shopping_lists"] = errBackendDown
	store := newTestStore(ds, &fakeCache{})
	list := shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{{ID: "a", ListID: "L1", Quantity: 1}}}
	seedLists(store, list)

	err := store.DeleteList(context.Background(), list)
	if !errors.Is(err, ErrPartialCascade) {
		t.Fatalf("expected partial cascade error, got %v", err)
	}
	var cascadeErr *PartialCascadeError
	if !errors.As(err, &cascadeErr) || cascadeErr.ListID != "L1" {
		t.Fatalf("expected cascade error for L1, got %v", err)
	}
	if _, ok := store.List("L1"); !ok {
		t.Fatalf("expected L1 to stay in memory")
	}
}

func TestDeleteListRemovesList(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	list := shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{}}
	seedLists(store, list, shopping.List{ID: "L2", UserID: "user-1", Items: []shopping.Item{}})

	if err := store.DeleteList(context.Background(), list); err != nil {
		t.Fatalf("delete list failed: %v", err)
	}
	lists := store.Lists()
	if len(lists) != 1 || lists[0].ID != "L2" {
		t.Fatalf("expected only L2, got %+v", lists)
	}
	if ds.calls[0] != "delete shopping_items" || ds.calls[1] != "delete shopping_lists" {
		t.Fatalf("expected items deleted before list, got %v", ds.calls)
	}
}

func TestToggleListCompletionTwiceRestoresState(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	original := shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{}}
	seedLists(store, original)

	completed, err := store.ToggleListCompletion(context.Background(), original)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !completed.IsCompleted || completed.CompletedAt == nil || !completed.CompletedAt.Equal(testNow) {
		t.Fatalf("expected completed list, got %+v", completed)
	}

	restored, err := store.ToggleListCompletion(context.Background(), completed)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if restored.IsCompleted != original.IsCompleted || restored.CompletedAt != nil {
		t.Fatalf("expected original state, got %+v", restored)
	}

	stored, _ := store.List("L1")
	if stored.IsCompleted || stored.CompletedAt != nil {
		t.Fatalf("expected stored list active, got %+v", stored)
	}
}

func TestUpdateListUnknownIDSkipsLocalChange(t *testing.T) {
	ds := newFakeRemote()
	cache := &fakeCache{}
	store := newTestStore(ds, cache)

	if err := store.UpdateList(context.Background(), shopping.List{ID: "ghost", Name: "x"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ds.called("update shopping_lists") {
		t.Fatalf("expected remote update")
	}
	if cache.saves != 0 || len(store.Lists()) != 0 {
		t.Fatalf("expected no local change")
	}
}

func TestObserversNotifiedOncePerMutation(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	seedLists(store, shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{}})

	var snapshots []Snapshot
	unsubscribe := store.Subscribe(func(snapshot Snapshot) {
		snapshots = append(snapshots, snapshot)
	})

	if _, err := store.CreateItem(context.Background(), shopping.Item{Name: "Milk", EstimatedPrice: floatPtr(1)}, "L1"); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("expected one notification, got %d", len(snapshots))
	}
	if len(snapshots[0].Lists[0].Items) != 1 {
		t.Fatalf("expected post mutation state, got %+v", snapshots[0].Lists)
	}

	ds.fail["insert shopping_items"] = errBackendDown
	if _, err := store.CreateItem(context.Background(), shopping.Item{Name: "Eggs"}, "L1"); err == nil {
		t.Fatalf("expected failure")
	}
	if len(snapshots) != 2 || snapshots[1].Err == "" {
		t.Fatalf("expected failure notification with error, got %+v", snapshots)
	}

	unsubscribe()
	store.ClearAllData()
	if len(snapshots) != 2 {
		t.Fatalf("expected no notification after unsubscribe, got %d", len(snapshots))
	}
}

func TestClearAllDataIsLocalOnly(t *testing.T) {
	ds := newFakeRemote()
	cache := &fakeCache{}
	store := newTestStore(ds, cache)
	seedLists(store, shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{}})

	store.ClearAllData()

	if len(store.Lists()) != 0 {
		t.Fatalf("expected empty collection")
	}
	if cache.clears != 1 {
		t.Fatalf("expected cache cleared once, got %d", cache.clears)
	}
	if len(ds.calls) != 0 {
		t.Fatalf("expected no remote calls, got %v", ds.calls)
	}
}

func TestNewStoreSeedsFromCache(t *testing.T) {
	cache := &fakeCache{lists: []shopping.List{{ID: "cached", Items: []shopping.Item{}}}}
	store := newTestStore(newFakeRemote(), cache)

	if lists := store.Lists(); len(lists) != 1 || lists[0].ID != "cached" {
		t.Fatalf("expected cached list, got %+v", lists)
	}
	if cache.loads != 1 {
		t.Fatalf("expected a single cache read, got %d", cache.loads)
	}
}

// Two racing updates of the same item: the one whose remote call returns last
// decides the in-memory state, whatever the issue order.
func TestRacingUpdatesLastCompletionWins(t *testing.T) {
	ds := newFakeRemote()
	store := newTestStore(ds, &fakeCache{})
	seedLists(store, shopping.List{ID: "L1", UserID: "user-1", Items: []shopping.Item{{ID: "a", ListID: "L1", Name: "start", Quantity: 1}}})

	entered := make(chan struct{})
	release := make(chan struct{})
	ds.onUpdate = func(values map[string]any) {
		if values["name"] == "first" {
			close(entered)
			<-release
		}
	}

	item, _ := store.Item("a")
	done := make(chan error, 1)
	go func() {
		first := item
		first.Name = "first"
		_, err := store.UpdateItem(context.Background(), first)
		done <- err
	}()

	<-entered
	second := item
	second.Name = "second"
	if _, err := store.UpdateItem(context.Background(), second); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	got, _ := store.Item("a")
	if got.Name != "first" {
		t.Fatalf("expected last completed update to win, got %q", got.Name)
	}
}

func TestRegistryReturnsOneStorePerUser(t *testing.T) {
	created := 0
	registry := NewRegistry(func(userID string) *Store {
		created++
		return newTestStore(newFakeRemote(), &fakeCache{})
	})

	first := registry.ForUser("user-1")
	if registry.ForUser(" user-1 ") != first {
		t.Fatalf("expected same store for same user")
	}
	if registry.ForUser("user-2") == first {
		t.Fatalf("expected distinct store for another user")
	}
	registry.Forget("user-1")
	if registry.ForUser("user-1") == first {
		t.Fatalf("expected fresh store after forget")
	}
	if created != 3 {
		t.Fatalf("expected 3 stores, got %d", created)
	}
}

var testNow = time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

func newTestStore(ds remote.DataService, cache Cache) *Store {
	store := NewStore(ds, session.Static("user-1"), cache, nil)
	store.now = func() time.Time { return testNow }
	return store
}

// seedLists installs lists as the local state with totals derived from their
// items, the same way FetchLists builds them.
func seedLists(store *Store, lists ...shopping.List) {
	seeded := shopping.CloneLists(lists)
	for idx := range seeded {
		seeded[idx].RecomputeTotal()
	}
	store.mu.Lock()
	store.lists = seeded
	store.mu.Unlock()
}

type fakeCache struct {
	lists  []shopping.List
	saves  int
	loads  int
	clears int
}

func (c *fakeCache) Save(lists []shopping.List) {
	c.saves++
	c.lists = shopping.CloneLists(lists)
}

func (c *fakeCache) Load() []shopping.List {
	c.loads++
	return shopping.CloneLists(c.lists)
}

func (c *fakeCache) Clear() {
	c.clears++
	c.lists = nil
}

type fakeRemote struct {
	mu       sync.Mutex
	lists    []shopping.ListRecord
	items    []shopping.Item
	calls    []string
	fail     map[string]error
	stamp    func(item *shopping.Item)
	onUpdate func(values map[string]any)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{fail: make(map[string]error)}
}

func (f *fakeRemote) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeRemote) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.calls {
		if existing == call {
			return true
		}
	}
	return false
}

func (f *fakeRemote) Select(_ context.Context, table string, query remote.Query, dst any) error {
	if err := f.record("select " + table); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch out := dst.(type) {
	case *[]shopping.ListRecord:
		var rows []shopping.ListRecord
		for _, row := range f.lists {
			if matches(query.Filters, map[string]any{"id": row.ID, "user_id": row.UserID}) {
				rows = append(rows, row)
			}
		}
		if query.Order != nil && query.Order.Column == "created_at" {
			sort.SliceStable(rows, func(i, j int) bool {
				if query.Order.Descending {
					return rows[i].CreatedAt.After(rows[j].CreatedAt)
				}
				return rows[i].CreatedAt.Before(rows[j].CreatedAt)
			})
		}
		*out = rows
	case *[]shopping.Item:
		var rows []shopping.Item
		for _, row := range f.items {
			if matches(query.Filters, map[string]any{"id": row.ID, "list_id": row.ListID}) {
				rows = append(rows, row.Clone())
			}
		}
		*out = rows
	default:
		return fmt.Errorf("unsupported destination %T", dst)
	}
	return nil
}

func (f *fakeRemote) Insert(_ context.Context, table string, record any) error {
	if err := f.record("insert " + table); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch row := record.(type) {
	case *shopping.ListRecord:
		f.lists = append(f.lists, *row)
	case *shopping.Item:
		if f.stamp != nil {
			f.stamp(row)
		}
		f.items = append(f.items, row.Clone())
	default:
		return fmt.Errorf("unsupported record %T", record)
	}
	return nil
}

func (f *fakeRemote) Update(_ context.Context, table string, values map[string]any, _ []remote.Filter) error {
	if err := f.record("update " + table); err != nil {
		return err
	}
	if f.onUpdate != nil {
		f.onUpdate(values)
	}
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, table string, _ []remote.Filter) error {
	return f.record("delete " + table)
}

func matches(filters []remote.Filter, columns map[string]any) bool {
	for _, filter := range filters {
		if columns[filter.Column] != filter.Value {
			return false
		}
	}
	return true
}
