package feedbackstore

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Sanchit081/NeuroBit/internal/models"
)

func TestInsertAndList(t *testing.T) {
	store := NewMemoryStore()
	store.Insert(models.Feedback{ID: "1", Status: models.FeedbackStatusPending, SubmittedAt: time.Now()})

	entries := store.List()
	if len(entries) != 1 || entries[0].ID != "1" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	store := NewMemoryStore()
	store.Insert(models.Feedback{ID: "1", Status: models.FeedbackStatusPending})

	snapshot := store.List()
	snapshot[0].Status = models.FeedbackStatusRejected

	if store.List()[0].Status != models.FeedbackStatusPending {
		t.Fatal("mutating a snapshot must not affect the store")
	}
}

func TestUpdateStatus(t *testing.T) {
	store := NewMemoryStore()
	store.Insert(models.Feedback{ID: "1", Status: models.FeedbackStatusPending})

	updated, ok := store.UpdateStatus("1", models.FeedbackStatusApproved)
	if !ok {
		t.Fatal("expected the update to find the entry")
	}
	if updated.Status != models.FeedbackStatusApproved {
		t.Fatalf("expected approved, got %q", updated.Status)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("expected updatedAt to be set")
	}

	if _, ok := store.UpdateStatus("missing", models.FeedbackStatusApproved); ok {
		t.Fatal("expected unknown id to report not found")
	}
}

func TestConcurrentAppendsAndReads(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Insert(models.Feedback{ID: strconv.Itoa(i), Status: models.FeedbackStatusPending})
		}(i)
		go func() {
			defer wg.Done()
			_ = store.List()
		}()
	}
	wg.Wait()

	if got := len(store.List()); got != 50 {
		t.Fatalf("expected 50 entries after concurrent inserts, got %d", got)
	}
}
