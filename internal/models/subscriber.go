package models

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriberSources is the fixed set of signup origins.
var SubscriberSources = []string{"website", "gumroad", "social_media", "referral"}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

type Subscriber struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	Name          string             `bson:"name" json:"name"`
	Interests     StringList         `bson:"interests" json:"interests"`
	Source        string             `bson:"source" json:"source"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	SubscribedAt  time.Time          `bson:"subscribedAt" json:"subscribedAt"`
	LastEmailSent *time.Time         `bson:"lastEmailSent,omitempty" json:"lastEmailSent,omitempty"`
	Tags          StringList         `bson:"tags" json:"tags"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DaysSinceSubscribed is derived, never stored.
func (s Subscriber) DaysSinceSubscribed(now time.Time) int {
	return int(now.Sub(s.SubscribedAt).Hours() / 24)
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func IsValidSource(source string) bool {
	for _, s := range SubscriberSources {
		if s == source {
			return true
		}
	}
	return false
}

// SubscriberStats is the aggregate over the whole collection.
type SubscriberStats struct {
	Total     int64 `bson:"total" json:"total"`
	Active    int64 `bson:"active" json:"active"`
	ThisMonth int64 `bson:"thisMonth" json:"thisMonth"`
}
