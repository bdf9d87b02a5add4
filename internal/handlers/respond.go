package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Sanchit081/NeuroBit/internal/config"
)

// FieldError is one entry of the errors array in a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondInternalError hides the underlying error outside production, where
// the detail is echoed back to ease local debugging.
func respondInternalError(c *gin.Context, route string, message string, err error) {
	log.Printf("[%s] returning error 500: %v", route, err)
	body := gin.H{
		"success": false,
		"message": message,
	}
	if err != nil && !config.AppEnv.IsProduction() {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

func respondValidationFailure(c *gin.Context, route string, fieldErrors []FieldError) {
	log.Printf("[%s] validation failed: %v", route, fieldErrors)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  fieldErrors,
	})
}

// bindingFieldErrors turns a gin binding error into field-level messages.
// Non-validator errors (malformed JSON and the like) map to a single body error.
func bindingFieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: "Invalid request body"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldErrorMessage(fe)})
	}
	return out
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please provide a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return "Invalid " + fe.Field()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "lte":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
