package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sanchit081/NeuroBit/internal/models"
)

type ProductCreateRequest struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Category      string   `json:"category"`
	Features      []string `json:"features"`
	GumroadLink   string   `json:"gumroadLink"`
	NotionLink    string   `json:"notionLink"`
	CoverImage    string   `json:"coverImage"`
	IsPopular     *bool    `json:"isPopular"`
	Tags          []string `json:"tags"`
}

type ProductUpdateRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Category      *string   `json:"category"`
	Features      *[]string `json:"features"`
	GumroadLink   *string   `json:"gumroadLink"`
	NotionLink    *string   `json:"notionLink"`
	CoverImage    *string   `json:"coverImage"`
	IsActive      *bool     `json:"isActive"`
	IsPopular     *bool     `json:"isPopular"`
	Rating        *float64  `json:"rating"`
	Tags          *[]string `json:"tags"`
}

type RecordSaleRequest struct {
	Quantity *int64   `json:"quantity"`
	Amount   *float64 `json:"amount"`
}

/*
GET /api/products
- Public catalog: active products only, newest first.
- category and popular are exact-match filters, limit caps the result.
*/
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		filter := bson.M{"isActive": true}

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}
		if c.Query("popular") == "true" {
			filter["isPopular"] = true
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		if limitStr := strings.TrimSpace(c.Query("limit")); limitStr != "" {
			limit, err := strconv.ParseInt(limitStr, 10, 64)
			if err != nil || limit < 1 {
				respondError(c, http.StatusBadRequest, route, "Invalid limit")
				return
			}
			findOptions.SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
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

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    products,
			"count":   len(products),
		})
	}
}

/*
GET /api/products/:slug
*/
func GetProductBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:slug"
		defer handlePanic(c, route)

		slug := normalizeSlug(c.Param("slug"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err := db.Collection("products").FindOne(ctx, bson.M{
			"slug":     slug,
			"isActive": true,
		}).Decode(&product)

		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "Product not found")
			return
		}
		if err != nil {
			respondInternalError(c, route, "Failed to fetch product", err)
			return
		}

		product.Derive()
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    product,
		})
	}
}

/*
POST /api/products (admin)
- Slug is the immutable identity; a taken slug is a conflict, never an
  overwrite.
*/
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		req.Slug = normalizeSlug(req.Slug)

		fieldErrors := validateProductCreate(req)
		if len(fieldErrors) > 0 {
			respondValidationFailure(c, route, fieldErrors)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("products").CountDocuments(ctx, bson.M{"slug": req.Slug})
		if err != nil {
			respondInternalError(c, route, "Failed to create product", err)
			return
		}
		if count > 0 {
			respondError(c, http.StatusBadRequest, route, "Product with this slug already exists")
			return
		}

		now := time.Now()
		product := models.Product{
			Name:        strings.TrimSpace(req.Name),
			Slug:        req.Slug,
			Description: strings.TrimSpace(req.Description),
			Price:       *req.Price,
			Category:    req.Category,
			Features:    models.StringList(orEmpty(req.Features)),
			GumroadLink: req.GumroadLink,
			NotionLink:  req.NotionLink,
			CoverImage:  req.CoverImage,
			IsActive:    true,
			Tags:        models.StringList(orEmpty(req.Tags)),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if req.OriginalPrice != nil {
			product.OriginalPrice = *req.OriginalPrice
		}
		if req.IsPopular != nil {
			product.IsPopular = *req.IsPopular
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusBadRequest, route, "Product with this slug already exists")
				return
			}
			respondInternalError(c, route, "Failed to create product", err)
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)
		product.Derive()
		log.Printf("[%s] created product %s", route, product.Slug)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Product created successfully",
			"data":    product,
		})
	}
}

/*
PUT /api/products/:slug (admin)
- Partial overwrite: only provided fields are validated and written.
*/
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:slug"
		defer handlePanic(c, route)

		slug := normalizeSlug(c.Param("slug"))

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		updateSet := bson.M{}

		if req.Name != nil {
			if err := validateName(*req.Name); err != nil {
				respondValidationFailure(c, route, []FieldError{{Field: "name", Message: err.Error()}})
				return
			}
			updateSet["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			if err := validateDescription(*req.Description); err != nil {
				respondValidationFailure(c, route, []FieldError{{Field: "description", Message: err.Error()}})
				return
			}
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if err := validatePrice(*req.Price); err != nil {
				respondValidationFailure(c, route, []FieldError{{Field: "price", Message: err.Error()}})
				return
			}
			updateSet["price"] = *req.Price
		}
		if req.OriginalPrice != nil {
			if err := validatePrice(*req.OriginalPrice); err != nil {
				respondValidationFailure(c, route, []FieldError{{Field: "originalPrice", Message: err.Error()}})
				return
			}
			updateSet["originalPrice"] = *req.OriginalPrice
		}
		if req.Category != nil {
			if !models.IsValidCategory(*req.Category) {
				respondValidationFailure(c, route, []FieldError{{Field: "category", Message: "Invalid category"}})
				return
			}
			updateSet["category"] = *req.Category
		}
		if req.GumroadLink != nil {
			if !isValidGumroadLink(*req.GumroadLink) {
				respondValidationFailure(c, route, []FieldError{{Field: "gumroadLink", Message: "Please provide a valid Gumroad link"}})
				return
			}
			updateSet["gumroadLink"] = *req.GumroadLink
		}
		if req.Rating != nil {
			if err := validateRating(*req.Rating); err != nil {
				respondValidationFailure(c, route, []FieldError{{Field: "rating", Message: err.Error()}})
				return
			}
			updateSet["rating"] = *req.Rating
		}
		if req.Features != nil {
			updateSet["features"] = models.StringList(*req.Features)
		}
		if req.NotionLink != nil {
			updateSet["notionLink"] = *req.NotionLink
		}
		if req.CoverImage != nil {
			updateSet["coverImage"] = *req.CoverImage
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if req.IsPopular != nil {
			updateSet["isPopular"] = *req.IsPopular
		}
		if req.Tags != nil {
			updateSet["tags"] = models.StringList(*req.Tags)
		}

		if len(updateSet) == 0 {
			respondError(c, http.StatusBadRequest, route, "No fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Product
		err := db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"slug": slug},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)

		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "Product not found")
			return
		}
		if err != nil {
			respondInternalError(c, route, "Failed to update product", err)
			return
		}

		updated.Derive()
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product updated successfully",
			"data":    updated,
		})
	}
}

/*
DELETE /api/products/:slug (admin)
- Soft delete only. Repeated calls are a no-op success.
*/
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:slug"
		defer handlePanic(c, route)

		slug := normalizeSlug(c.Param("slug"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{"slug": slug},
			bson.M{"$set": bson.M{
				"isActive":  false,
				"updatedAt": time.Now(),
			}},
		)
		if err != nil {
			respondInternalError(c, route, "Failed to delete product", err)
			return
		}

		if result.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product deleted successfully",
		})
	}
}

/*
POST /api/products/:slug/sales (admin)
- Records a sale with a single $inc so concurrent calls compose. Amount
  defaults to the current price, quantity to 1.
*/
func RecordProductSale(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/:slug/sales"
		defer handlePanic(c, route)

		slug := normalizeSlug(c.Param("slug"))

		var req RecordSaleRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, route, "Invalid request body")
				return
			}
		}

		quantity := int64(1)
		if req.Quantity != nil {
			if *req.Quantity < 1 {
				respondValidationFailure(c, route, []FieldError{{Field: "quantity", Message: "quantity must be at least 1"}})
				return
			}
			quantity = *req.Quantity
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		amount := 0.0
		if req.Amount != nil {
			if *req.Amount < 0 {
				respondValidationFailure(c, route, []FieldError{{Field: "amount", Message: "amount must be zero or greater"}})
				return
			}
			amount = *req.Amount
		} else {
			var existing models.Product
			err := db.Collection("products").FindOne(ctx, bson.M{"slug": slug}).Decode(&existing)
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			if err != nil {
				respondInternalError(c, route, "Failed to record sale", err)
				return
			}
			amount = existing.Price * float64(quantity)
		}

		var updated models.Product
		err := db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"slug": slug},
			bson.M{
				"$inc": bson.M{"sales": quantity, "revenue": amount},
				"$set": bson.M{"updatedAt": time.Now()},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)

		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "Product not found")
			return
		}
		if err != nil {
			respondInternalError(c, route, "Failed to record sale", err)
			return
		}

		updated.Derive()
		log.Printf("[%s] recorded sale slug=%s quantity=%d amount=%.2f", route, slug, quantity, amount)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Sale recorded successfully",
			"data":    updated,
		})
	}
}

/*
GET /api/products/stats/overview
- Aggregate over active products; a catalog with no active products still
  answers with a zeroed record.
*/
func GetProductStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/stats/overview"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		stats, err := productStats(ctx, db)
		if err != nil {
			respondInternalError(c, route, "Failed to fetch product statistics", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    stats,
		})
	}
}

func productStats(ctx context.Context, db *mongo.Database) (models.ProductStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"isActive": true}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalProducts": bson.M{"$sum": 1},
			"totalSales":    bson.M{"$sum": "$sales"},
			"totalRevenue":  bson.M{"$sum": "$revenue"},
			"avgRating":     bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := db.Collection("products").Aggregate(ctx, pipeline)
	if err != nil {
		return models.ProductStats{}, err
	}
	defer cursor.Close(ctx)

	var results []models.ProductStats
	if err := cursor.All(ctx, &results); err != nil {
		return models.ProductStats{}, err
	}
	if len(results) == 0 {
		return models.ProductStats{}, nil
	}
	return results[0], nil
}

func validateProductCreate(req ProductCreateRequest) []FieldError {
	fieldErrors := make([]FieldError, 0)

	if err := validateName(req.Name); err != nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "name", Message: err.Error()})
	}
	if err := validateSlug(req.Slug); err != nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "slug", Message: err.Error()})
	}
	if err := validateDescription(req.Description); err != nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "description", Message: err.Error()})
	}
	if req.Price == nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "price", Message: "Price must be a number"})
	} else if err := validatePrice(*req.Price); err != nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "price", Message: err.Error()})
	}
	if req.OriginalPrice != nil && *req.OriginalPrice < 0 {
		fieldErrors = append(fieldErrors, FieldError{Field: "originalPrice", Message: "Original price must be zero or greater"})
	}
	if !models.IsValidCategory(req.Category) {
		fieldErrors = append(fieldErrors, FieldError{Field: "category", Message: "Invalid category"})
	}
	if !isValidGumroadLink(req.GumroadLink) {
		fieldErrors = append(fieldErrors, FieldError{Field: "gumroadLink", Message: "Please provide a valid Gumroad link"})
	}

	return fieldErrors
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		product.Derive()
		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
