package models

import "time"

// Feedback status values an admin can assign during moderation.
const (
	FeedbackStatusPending  = "pending"
	FeedbackStatusApproved = "approved"
	FeedbackStatusRejected = "rejected"
)

// FeedbackTypes is the fixed set of accepted feedback kinds.
var FeedbackTypes = []string{"testimonial", "bug_report", "feature_request", "general"}

type Feedback struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Message     string     `json:"message"`
	Rating      int        `json:"rating,omitempty"`
	Product     string     `json:"product"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submittedAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func IsValidFeedbackType(t string) bool {
	for _, v := range FeedbackTypes {
		if v == t {
			return true
		}
	}
	return false
}

func IsValidFeedbackStatus(status string) bool {
	switch status {
	case FeedbackStatusPending, FeedbackStatusApproved, FeedbackStatusRejected:
		return true
	}
	return false
}
