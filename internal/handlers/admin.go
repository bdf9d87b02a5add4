package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sanchit081/NeuroBit/internal/models"
)

type SubscriberUpdateRequest struct {
	Email         *string   `json:"email"`
	Name          *string   `json:"name"`
	Interests     *[]string `json:"interests"`
	Source        *string   `json:"source"`
	IsActive      *bool     `json:"isActive"`
	Tags          *[]string `json:"tags"`
	MarkEmailSent bool      `json:"markEmailSent"`
}

type subscriberExportRow struct {
	Email        string `csv:"Email"`
	Name         string `csv:"Name"`
	Interests    string `csv:"Interests"`
	Source       string `csv:"Source"`
	SubscribedAt string `csv:"Subscribed At"`
}

/*
GET /api/admin/dashboard
*/
func AdminDashboard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/dashboard"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		subStats, err := subscriberStats(ctx, db)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch dashboard data", err)
			return
		}

		prodStats, err := productStats(ctx, db)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch dashboard data", err)
			return
		}

		recentSubscribers, err := recentSubscribers(ctx, db, 10)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch dashboard data", err)
			return
		}

		recentProducts, err := recentProducts(ctx, db, 5)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch dashboard data", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"subscribers":       subStats,
				"products":          prodStats,
				"recentSubscribers": recentSubscribers,
				"recentProducts":    recentProducts,
				"timestamp":         time.Now().Format(time.RFC3339),
			},
		})
	}
}

/*
GET /api/admin/subscribers
- source and active filters, newest first, paginated.
*/
func GetSubscribers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/subscribers"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 50)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid pagination params")
			return
		}

		filter := bson.M{}
		if source := strings.TrimSpace(c.Query("source")); source != "" {
			filter["source"] = source
		}
		if active := strings.TrimSpace(c.Query("active")); active != "" {
			filter["isActive"] = active == "true"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("subscribers").CountDocuments(ctx, filter)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch subscribers", err)
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "subscribedAt", Value: -1}})

		cursor, err := db.Collection("subscribers").Find(ctx, filter, opts)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch subscribers", err)
			return
		}
		defer cursor.Close(ctx)

		subscribers := make([]models.Subscriber, 0)
		if err := cursor.All(ctx, &subscribers); err != nil {
			respondInternalError(c, route, "Failed to fetch subscribers", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    subscribers,
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
GET /api/admin/subscribers/export
- Active subscribers as a CSV attachment. Quoting is left to the csv
  encoder, so embedded commas and quotes survive a round trip.
*/
func ExportSubscribers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/subscribers/export"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "subscribedAt", Value: -1}})
		cursor, err := db.Collection("subscribers").Find(ctx, bson.M{"isActive": true}, opts)
		if err != nil {
			respondInternalError(c, route, "Failed to export subscribers", err)
			return
		}
		defer cursor.Close(ctx)

		subscribers := make([]models.Subscriber, 0)
		if err := cursor.All(ctx, &subscribers); err != nil {
			respondInternalError(c, route, "Failed to export subscribers", err)
			return
		}

		rows := buildExportRows(subscribers)
		content, err := gocsv.MarshalString(&rows)
		if err != nil {
			respondInternalError(c, route, "Failed to export subscribers", err)
			return
		}

		log.Printf("[%s] exporting %d subscribers", route, len(subscribers))
		c.Header("Content-Disposition", `attachment; filename="neurobit-subscribers.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte(content))
	}
}

/*
PUT /api/admin/subscribers/:id
*/
func UpdateSubscriber(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/subscribers/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid subscriber id")
			return
		}

		var req SubscriberUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		updateSet := bson.M{}

		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if !models.IsValidEmail(email) {
				respondValidationFailure(c, route, []FieldError{{Field: "email", Message: "Please provide a valid email address"}})
				return
			}
			updateSet["email"] = email
		}
		if req.Name != nil {
			updateSet["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Interests != nil {
			updateSet["interests"] = models.StringList(*req.Interests)
		}
		if req.Source != nil {
			if !models.IsValidSource(*req.Source) {
				respondValidationFailure(c, route, []FieldError{{Field: "source", Message: "Invalid source"}})
				return
			}
			updateSet["source"] = *req.Source
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if req.Tags != nil {
			updateSet["tags"] = models.StringList(*req.Tags)
		}
		if req.MarkEmailSent {
			updateSet["lastEmailSent"] = time.Now()
		}

		if len(updateSet) == 0 {
			respondError(c, http.StatusBadRequest, route, "No fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Subscriber
		err = db.Collection("subscribers").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)

		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "Subscriber not found")
			return
		}
		if err != nil {
			respondInternalError(c, route, "Failed to update subscriber", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Subscriber updated successfully",
			"data":    updated,
		})
	}
}

/*
DELETE /api/admin/subscribers/:id
- Deactivates, mirroring the public unsubscribe. Purge is a separate call.
*/
func DeactivateSubscriber(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/subscribers/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid subscriber id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("subscribers").UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"isActive":  false,
				"updatedAt": time.Now(),
			}},
		)
		if err != nil {
			respondInternalError(c, route, "Failed to delete subscriber", err)
			return
		}
		if result.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, route, "Subscriber not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Subscriber deactivated successfully",
		})
	}
}

/*
DELETE /api/admin/subscribers/:id/purge
- The only hard delete in the system.
*/
func PurgeSubscriber(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/subscribers/:id/purge"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid subscriber id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("subscribers").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondInternalError(c, route, "Failed to delete subscriber", err)
			return
		}
		if result.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, route, "Subscriber not found")
			return
		}

		log.Printf("[%s] purged subscriber %s", route, id.Hex())
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Subscriber deleted successfully",
		})
	}
}

/*
GET /api/admin/products
- Admin view includes inactive products.
*/
func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("products").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch products", err)
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch products", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    products,
			"count":   len(products),
		})
	}
}

type dailySignupCount struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

type sourceCount struct {
	Source string `bson:"_id" json:"source"`
	Count  int64  `bson:"count" json:"count"`
}

type productPerformance struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Sales   int64              `bson:"sales" json:"sales"`
	Revenue float64            `bson:"revenue" json:"revenue"`
	Rating  float64            `bson:"rating" json:"rating"`
}

/*
GET /api/admin/stats?period=days
- Signup histogram over the trailing window, source breakdown over all time,
  product performance by revenue.
*/
func AdminStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/stats"
		defer handlePanic(c, route)

		days := 30
		if period := strings.TrimSpace(c.Query("period")); period != "" {
			parsed, err := strconv.Atoi(period)
			if err != nil || parsed < 1 {
				respondError(c, http.StatusBadRequest, route, "Invalid period")
				return
			}
			days = parsed
		}
		startDate := time.Now().AddDate(0, 0, -days)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		growth := make([]dailySignupCount, 0)
		growthPipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.M{"subscribedAt": bson.M{"$gte": startDate}}}},
			bson.D{{Key: "$group", Value: bson.M{
				"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$subscribedAt"}},
				"count": bson.M{"$sum": 1},
			}}},
			bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
		}
		cursor, err := db.Collection("subscribers").Aggregate(ctx, growthPipeline)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch statistics", err)
			return
		}
		if err := cursor.All(ctx, &growth); err != nil {
			respondInternalError(c, route, "Failed to fetch statistics", err)
			return
		}

		sources := make([]sourceCount, 0)
		sourcePipeline := mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.M{
				"_id":   "$source",
				"count": bson.M{"$sum": 1},
			}}},
		}
		cursor, err = db.Collection("subscribers").Aggregate(ctx, sourcePipeline)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch statistics", err)
			return
		}
		if err := cursor.All(ctx, &sources); err != nil {
			respondInternalError(c, route, "Failed to fetch statistics", err)
			return
		}

		performance := make([]productPerformance, 0)
		performancePipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.M{"isActive": true}}},
			bson.D{{Key: "$project", Value: bson.M{
				"name":    1,
				"sales":   1,
				"revenue": 1,
				"rating":  1,
			}}},
			bson.D{{Key: "$sort", Value: bson.M{"revenue": -1}}},
		}
		cursor, err = db.Collection("products").Aggregate(ctx, performancePipeline)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch statistics", err)
			return
		}
		if err := cursor.All(ctx, &performance); err != nil {
			respondInternalError(c, route, "Failed to fetch statistics", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"subscriberGrowth":   growth,
				"sourceBreakdown":    sources,
				"productPerformance": performance,
				"period":             strconv.Itoa(days) + " days",
			},
		})
	}
}

func subscriberStats(ctx context.Context, db *mongo.Database) (models.SubscriberStats, error) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"total":  bson.M{"$sum": 1},
			"active": bson.M{"$sum": bson.M{"$cond": bson.A{"$isActive", 1, 0}}},
			"thisMonth": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$subscribedAt", firstOfMonth}},
				1,
				0,
			}}},
		}}},
	}

	cursor, err := db.Collection("subscribers").Aggregate(ctx, pipeline)
	if err != nil {
		return models.SubscriberStats{}, err
	}
	defer cursor.Close(ctx)

	var results []models.SubscriberStats
	if err := cursor.All(ctx, &results); err != nil {
		return models.SubscriberStats{}, err
	}
	if len(results) == 0 {
		return models.SubscriberStats{}, nil
	}
	return results[0], nil
}

func recentSubscribers(ctx context.Context, db *mongo.Database, limit int64) ([]bson.M, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "subscribedAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"email": 1, "name": 1, "source": 1, "subscribedAt": 1})

	cursor, err := db.Collection("subscribers").Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]bson.M, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func recentProducts(ctx context.Context, db *mongo.Database, limit int64) ([]bson.M, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"name": 1, "slug": 1, "price": 1, "sales": 1, "revenue": 1})

	cursor, err := db.Collection("products").Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]bson.M, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func buildExportRows(subscribers []models.Subscriber) []subscriberExportRow {
	rows := make([]subscriberExportRow, 0, len(subscribers))
	for _, sub := range subscribers {
		rows = append(rows, subscriberExportRow{
			Email:        sub.Email,
			Name:         sub.Name,
			Interests:    strings.Join(sub.Interests, "; "),
			Source:       sub.Source,
			SubscribedAt: sub.SubscribedAt.Format("2006-01-02"),
		})
	}
	return rows
}
