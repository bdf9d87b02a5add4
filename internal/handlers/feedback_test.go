package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sanchit081/NeuroBit/internal/feedbackstore"
	"github.com/Sanchit081/NeuroBit/internal/models"
)

func newFeedbackRouter(store feedbackstore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/feedback", SubmitFeedback(store))
	r.GET("/api/feedback/testimonials", GetTestimonials(store))
	r.GET("/api/feedback/stats", FeedbackStats(store))
	r.GET("/api/feedback/all", GetAllFeedback(store))
	r.PUT("/api/feedback/:id/status", UpdateFeedbackStatus(store))
	return r
}

func postJSON(r *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitFeedbackReturnsIDAndPendingStatus(t *testing.T) {
	store := feedbackstore.NewMemoryStore()
	r := newFeedbackRouter(store)

	w := postJSON(r, "/api/feedback", map[string]any{
		"email":   "a@b.com",
		"message": "This template changed how I plan my week.",
		"rating":  5,
		"type":    "testimonial",
	})

	if w.Code != 201 {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	entries := store.List()
	if len(entries) != 1 {
		t.Fatalf("expected one stored entry, got %d", len(entries))
	}
	if entries[0].Status != models.FeedbackStatusPending {
		t.Fatalf("expected pending status, got %q", entries[0].Status)
	}
	if entries[0].Product != "General" {
		t.Fatalf("expected default product General, got %q", entries[0].Product)
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	store := feedbackstore.NewMemoryStore()
	r := newFeedbackRouter(store)

	w := postJSON(r, "/api/feedback", map[string]any{
		"email":   "not-an-email",
		"message": "too short",
	})

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(store.List()) != 0 {
		t.Fatal("invalid feedback must not be stored")
	}
}

func TestTestimonialsOnlyApprovedAndRated(t *testing.T) {
	store := feedbackstore.NewMemoryStore()
	now := time.Now()

	store.Insert(models.Feedback{ID: "1", Type: "testimonial", Status: models.FeedbackStatusApproved, Rating: 4, Message: "solid", SubmittedAt: now})
	store.Insert(models.Feedback{ID: "2", Type: "testimonial", Status: models.FeedbackStatusApproved, Rating: 5, Message: "great", SubmittedAt: now})
	store.Insert(models.Feedback{ID: "3", Type: "testimonial", Status: models.FeedbackStatusPending, Rating: 5, Message: "unreviewed", SubmittedAt: now})
	store.Insert(models.Feedback{ID: "4", Type: "bug_report", Status: models.FeedbackStatusApproved, Rating: 5, Message: "broken", SubmittedAt: now})
	store.Insert(models.Feedback{ID: "5", Type: "testimonial", Status: models.FeedbackStatusApproved, Message: "no rating", SubmittedAt: now})

	r := newFeedbackRouter(store)
	req := httptest.NewRequest("GET", "/api/feedback/testimonials", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Data []struct {
			ID     string `json:"id"`
			Rating int    `json:"rating"`
		} `json:"data"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}

	if body.Count != 2 {
		t.Fatalf("expected 2 testimonials, got %d", body.Count)
	}
	if body.Data[0].ID != "2" || body.Data[1].ID != "1" {
		t.Fatalf("expected rating-descending order, got %+v", body.Data)
	}
}

func TestUpdateFeedbackStatusRejectsUnknownStatus(t *testing.T) {
	store := feedbackstore.NewMemoryStore()
	store.Insert(models.Feedback{ID: "42", Type: "general", Status: models.FeedbackStatusPending, SubmittedAt: time.Now()})
	r := newFeedbackRouter(store)

	payload, _ := json.Marshal(map[string]string{"status": "archived"})
	req := httptest.NewRequest("PUT", "/api/feedback/42/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400 for status=archived, got %d", w.Code)
	}
}

func TestUpdateFeedbackStatusUnknownID(t *testing.T) {
	store := feedbackstore.NewMemoryStore()
	r := newFeedbackRouter(store)

	payload, _ := json.Marshal(map[string]string{"status": "approved"})
	req := httptest.NewRequest("PUT", "/api/feedback/missing/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 404 {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
}

func TestFeedbackStatsAverageRounding(t *testing.T) {
	now := time.Now()
	entries := []models.Feedback{
		{ID: "1", Type: "testimonial", Status: models.FeedbackStatusApproved, Rating: 5, SubmittedAt: now},
		{ID: "2", Type: "bug_report", Status: models.FeedbackStatusPending, Rating: 4, SubmittedAt: now},
		{ID: "3", Type: "general", Status: models.FeedbackStatusPending, Rating: 4, SubmittedAt: now},
		{ID: "4", Type: "feature_request", Status: models.FeedbackStatusPending, SubmittedAt: now},
	}

	stats := feedbackStats(entries)

	if stats["totalRated"] != 3 {
		t.Fatalf("expected 3 rated entries, got %v", stats["totalRated"])
	}
	// 13/3 = 4.333... rounds to 4.3
	if stats["avgRating"] != 4.3 {
		t.Fatalf("expected avgRating 4.3, got %v", stats["avgRating"])
	}
	if stats["pending"] != 3 || stats["approved"] != 1 {
		t.Fatalf("unexpected status counts: %v", stats)
	}
}

func TestGetAllFeedbackPaginationAndFilters(t *testing.T) {
	store := feedbackstore.NewMemoryStore()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		status := models.FeedbackStatusPending
		if i%2 == 0 {
			status = models.FeedbackStatusApproved
		}
		store.Insert(models.Feedback{
			ID:          string(rune('a' + i)),
			Type:        "general",
			Status:      status,
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	r := newFeedbackRouter(store)
	req := httptest.NewRequest("GET", "/api/feedback/all?status=approved&page=1&limit=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Data       []models.Feedback `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
			Pages int64 `json:"pages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}

	if body.Pagination.Total != 3 || body.Pagination.Pages != 2 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 entries on the first page, got %d", len(body.Data))
	}
	// newest first
	if !body.Data[0].SubmittedAt.After(body.Data[1].SubmittedAt) {
		t.Fatal("expected submittedAt-descending order")
	}
}
