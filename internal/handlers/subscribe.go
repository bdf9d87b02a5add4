package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sanchit081/NeuroBit/internal/models"
	"github.com/Sanchit081/NeuroBit/internal/notify"
)

type SubscribeRequest struct {
	Email     string   `json:"email" binding:"required,email"`
	Name      string   `json:"name" binding:"omitempty,min=2,max=50"`
	Interests []string `json:"interests"`
	Source    string   `json:"source" binding:"omitempty,oneof=website gumroad social_media referral"`
}

/*
POST /api/subscribe
- The insert is the operation; the CRM sync and welcome email are dispatched
  afterwards and may fail without affecting the response.
*/
func Subscribe(db *mongo.Database, notion *notify.NotionClient, mailer *notify.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/subscribe"
		defer handlePanic(c, route)

		var req SubscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationFailure(c, route, bindingFieldErrors(err))
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)
		source := req.Source
		if source == "" {
			source = "website"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("subscribers").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			respondInternalError(c, route, "Failed to subscribe. Please try again.", err)
			return
		}
		if count > 0 {
			respondError(c, http.StatusBadRequest, route, "This email is already subscribed to our newsletter")
			return
		}

		now := time.Now()
		subscriber := models.Subscriber{
			Email:        email,
			Name:         name,
			Interests:    models.StringList(orEmpty(req.Interests)),
			Source:       source,
			IsActive:     true,
			SubscribedAt: now,
			Tags:         models.StringList([]string{}),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if _, err := db.Collection("subscribers").InsertOne(ctx, subscriber); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusBadRequest, route, "This email is already subscribed to our newsletter")
				return
			}
			respondInternalError(c, route, "Failed to subscribe. Please try again.", err)
			return
		}

		if notion.Enabled() {
			notify.Dispatch("notion sync", func(ctx context.Context) error {
				return notion.AddSubscriber(ctx, notify.NotionSubscriber{
					Name:      name,
					Email:     email,
					Interests: subscriber.Interests,
					Source:    source,
				})
			})
		}
		notify.Dispatch("welcome email", func(ctx context.Context) error {
			return mailer.SendWelcome(ctx, email, name)
		})

		log.Printf("[%s] subscribed %s source=%s", route, email, source)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Successfully subscribed to NeuroBit newsletter!",
			"data": gin.H{
				"email":        subscriber.Email,
				"name":         subscriber.Name,
				"subscribedAt": subscriber.SubscribedAt,
			},
		})
	}
}

/*
GET /api/subscribe/verify/:email
- Public-safe subset only.
*/
func VerifySubscription(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/subscribe/verify/:email"
		defer handlePanic(c, route)

		email := strings.ToLower(strings.TrimSpace(c.Param("email")))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var subscriber models.Subscriber
		err := db.Collection("subscribers").FindOne(ctx, bson.M{"email": email}).Decode(&subscriber)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "Subscriber not found")
			return
		}
		if err != nil {
			respondInternalError(c, route, "Failed to verify subscription", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"email":               subscriber.Email,
				"name":                subscriber.Name,
				"isActive":            subscriber.IsActive,
				"subscribedAt":        subscriber.SubscribedAt,
				"daysSinceSubscribed": subscriber.DaysSinceSubscribed(time.Now()),
			},
		})
	}
}

/*
DELETE /api/subscribe/:email
- Unsubscribe deactivates; the record is retained for the admin listing.
*/
func Unsubscribe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/subscribe/:email"
		defer handlePanic(c, route)

		email := strings.ToLower(strings.TrimSpace(c.Param("email")))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("subscribers").UpdateOne(
			ctx,
			bson.M{"email": email},
			bson.M{"$set": bson.M{
				"isActive":  false,
				"updatedAt": time.Now(),
			}},
		)
		if err != nil {
			respondInternalError(c, route, "Failed to unsubscribe", err)
			return
		}
		if result.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, route, "Subscriber not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Successfully unsubscribed from NeuroBit newsletter",
		})
	}
}
