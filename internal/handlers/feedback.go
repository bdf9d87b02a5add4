package handlers

import (
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sanchit081/NeuroBit/internal/feedbackstore"
	"github.com/Sanchit081/NeuroBit/internal/models"
)

type FeedbackRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,min=10,max=1000"`
	Rating  int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Product string `json:"product" binding:"omitempty,min=2,max=100"`
	Type    string `json:"type" binding:"omitempty,oneof=testimonial bug_report feature_request general"`
}

/*
POST /api/feedback
- Entries land in the moderation queue as pending.
*/
func SubmitFeedback(store feedbackstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/feedback"
		defer handlePanic(c, route)

		var req FeedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationFailure(c, route, bindingFieldErrors(err))
			return
		}

		product := strings.TrimSpace(req.Product)
		if product == "" {
			product = "General"
		}
		feedbackType := req.Type
		if feedbackType == "" {
			feedbackType = "general"
		}

		feedback := models.Feedback{
			ID:          strconv.FormatInt(time.Now().UnixNano(), 10),
			Email:       strings.ToLower(strings.TrimSpace(req.Email)),
			Message:     strings.TrimSpace(req.Message),
			Rating:      req.Rating,
			Product:     product,
			Type:        feedbackType,
			Status:      models.FeedbackStatusPending,
			SubmittedAt: time.Now(),
		}

		store.Insert(feedback)

		log.Printf("[%s] received %s feedback from %s", route, feedback.Type, feedback.Email)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Thank you for your feedback! We'll review it shortly.",
			"data": gin.H{
				"id":          feedback.ID,
				"submittedAt": feedback.SubmittedAt,
			},
		})
	}
}

/*
GET /api/feedback/testimonials
- Approved, rated testimonials only, best rating first. Publicly visible, so
  the email and moderation status are stripped.
*/
func GetTestimonials(store feedbackstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/feedback/testimonials"
		defer handlePanic(c, route)

		limit := int64(10)
		if limitStr := strings.TrimSpace(c.Query("limit")); limitStr != "" {
			parsed, err := strconv.ParseInt(limitStr, 10, 64)
			if err != nil || parsed < 1 {
				respondError(c, http.StatusBadRequest, route, "Invalid limit")
				return
			}
			limit = parsed
		}

		testimonials := approvedTestimonials(store.List(), limit)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    testimonials,
			"count":   len(testimonials),
		})
	}
}

/*
GET /api/feedback/stats (admin)
*/
func FeedbackStats(store feedbackstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/feedback/stats"
		defer handlePanic(c, route)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    feedbackStats(store.List()),
		})
	}
}

/*
GET /api/feedback/all (admin)
*/
func GetAllFeedback(store feedbackstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/feedback/all"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 20)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid pagination params")
			return
		}

		entries := store.List()

		if status := strings.TrimSpace(c.Query("status")); status != "" {
			entries = filterFeedback(entries, func(fb models.Feedback) bool { return fb.Status == status })
		}
		if feedbackType := strings.TrimSpace(c.Query("type")); feedbackType != "" {
			entries = filterFeedback(entries, func(fb models.Feedback) bool { return fb.Type == feedbackType })
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].SubmittedAt.After(entries[j].SubmittedAt)
		})

		total := int64(len(entries))
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    entries[start:end],
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": totalPages(total, limit),
			},
		})
	}
}

/*
PUT /api/feedback/:id/status (admin)
*/
func UpdateFeedbackStatus(store feedbackstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/feedback/:id/status"
		defer handlePanic(c, route)

		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		if !models.IsValidFeedbackStatus(req.Status) {
			respondError(c, http.StatusBadRequest, route, "Invalid status. Must be pending, approved, or rejected")
			return
		}

		updated, ok := store.UpdateStatus(c.Param("id"), req.Status)
		if !ok {
			respondError(c, http.StatusNotFound, route, "Feedback not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Feedback status updated successfully",
			"data":    updated,
		})
	}
}

// approvedTestimonials filters the queue down to the public projection.
func approvedTestimonials(entries []models.Feedback, limit int64) []gin.H {
	filtered := filterFeedback(entries, func(fb models.Feedback) bool {
		return fb.Type == "testimonial" &&
			fb.Status == models.FeedbackStatusApproved &&
			fb.Rating > 0
	})

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Rating > filtered[j].Rating
	})

	if int64(len(filtered)) > limit {
		filtered = filtered[:limit]
	}

	out := make([]gin.H, 0, len(filtered))
	for _, fb := range filtered {
		out = append(out, gin.H{
			"id":          fb.ID,
			"message":     fb.Message,
			"rating":      fb.Rating,
			"product":     fb.Product,
			"submittedAt": fb.SubmittedAt,
		})
	}
	return out
}

func feedbackStats(entries []models.Feedback) gin.H {
	var testimonials, bugReports, featureRequests, pending, approved, totalRated int
	var ratingSum int

	for _, fb := range entries {
		switch fb.Type {
		case "testimonial":
			testimonials++
		case "bug_report":
			bugReports++
		case "feature_request":
			featureRequests++
		}
		switch fb.Status {
		case models.FeedbackStatusPending:
			pending++
		case models.FeedbackStatusApproved:
			approved++
		}
		if fb.Rating > 0 {
			totalRated++
			ratingSum += fb.Rating
		}
	}

	avgRating := 0.0
	if totalRated > 0 {
		avgRating = math.Round(float64(ratingSum)/float64(totalRated)*10) / 10
	}

	return gin.H{
		"total":           len(entries),
		"testimonials":    testimonials,
		"bugReports":      bugReports,
		"featureRequests": featureRequests,
		"pending":         pending,
		"approved":        approved,
		"avgRating":       avgRating,
		"totalRated":      totalRated,
	}
}

func filterFeedback(entries []models.Feedback, keep func(models.Feedback) bool) []models.Feedback {
	out := make([]models.Feedback, 0, len(entries))
	for _, fb := range entries {
		if keep(fb) {
			out = append(out, fb)
		}
	}
	return out
}
