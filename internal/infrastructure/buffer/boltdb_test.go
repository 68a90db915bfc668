package buffer

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"), "buffer")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndSize(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		item := Item{Entity: EntityTask, Operation: OperationCreate, Data: []byte(`{}`)}
		if err := store.Enqueue(item); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 3 {
		t.Fatalf("size = %d, want 3", size)
	}
}

func TestBatchOrderedByPriority(t *testing.T) {
	store := openTestStore(t)

	low := Item{ID: "low", Entity: EntityTask, Operation: OperationCreate, Data: []byte(`{}`), Priority: 5}
	high := Item{ID: "high", Entity: EntityNotification, Operation: OperationCreate, Data: []byte(`{}`), Priority: 1}

	if err := store.Enqueue(low); err != nil {
		t.Fatalf("Enqueue low: %v", err)
	}
	if err := store.Enqueue(high); err != nil {
		t.Fatalf("Enqueue high: %v", err)
	}

	items, err := store.GetBatch(10)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != "high" {
		t.Errorf("first item = %q, want high-priority item first", items[0].ID)
	}
}

func TestRemoveAndRequeue(t *testing.T) {
	store := openTestStore(t)

	item := Item{ID: "item-1", Entity: EntityTask, Operation: OperationUpdate, Data: []byte(`{}`)}
	if err := store.Enqueue(item); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	items, err := store.GetBatch(1)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	if err := store.Remove(items[0]); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if size, _ := store.Size(); size != 0 {
		t.Fatalf("size after remove = %d, want 0", size)
	}

	retried := items[0]
	retried.Retries = 1
	if err := store.Requeue(retried); err != nil {
		t.Fatalf("Requeue: %v", err)
	}

	items, err = store.GetBatch(1)
	if err != nil {
		t.Fatalf("GetBatch after requeue: %v", err)
	}
	if len(items) != 1 || items[0].Retries != 1 {
		t.Fatalf("requeued item not found with retry count, got %+v", items)
	}
}

func TestCleanupDropsOldItems(t *testing.T) {
	store := openTestStore(t)

	old := Item{ID: "old", Entity: EntityTask, Operation: OperationCreate, Data: []byte(`{}`), Timestamp: time.Now().Add(-48 * time.Hour)}
	fresh := Item{ID: "fresh", Entity: EntityTask, Operation: OperationCreate, Data: []byte(`{}`)}

	if err := store.Enqueue(old); err != nil {
		t.Fatalf("Enqueue old: %v", err)
	}
	if err := store.Enqueue(fresh); err != nil {
		t.Fatalf("Enqueue fresh: %v", err)
	}

	if err := store.Cleanup(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	items, err := store.GetBatch(10)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if len(items) != 1 || items[0].ID != "fresh" {
		t.Fatalf("items after cleanup = %+v, want only fresh", items)
	}
}
