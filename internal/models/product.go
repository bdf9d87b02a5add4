package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCategories is the fixed set of template categories sold on the site.
var ProductCategories = []string{"productivity", "content", "education", "business"}

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Slug               string             `bson:"slug" json:"slug"`
	Description        string             `bson:"description" json:"description"`
	Price              float64            `bson:"price" json:"price"`
	OriginalPrice      float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Category           string             `bson:"category" json:"category"`
	Features           StringList         `bson:"features" json:"features"`
	GumroadLink        string             `bson:"gumroadLink" json:"gumroadLink"`
	NotionLink         string             `bson:"notionLink" json:"notionLink"`
	CoverImage         string             `bson:"coverImage" json:"coverImage"`
	IsActive           bool               `bson:"isActive" json:"isActive"`
	IsPopular          bool               `bson:"isPopular" json:"isPopular"`
	Sales              int64              `bson:"sales" json:"sales"`
	Revenue            float64            `bson:"revenue" json:"revenue"`
	Rating             float64            `bson:"rating" json:"rating"`
	Downloads          int64              `bson:"downloads" json:"downloads"`
	Tags               StringList         `bson:"tags" json:"tags"`
	DiscountPercentage int                `bson:"-" json:"discountPercentage"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DiscountPercent is the advertised markdown against the strike-through price.
// Zero unless originalPrice is actually above the selling price.
func DiscountPercent(price, originalPrice float64) int {
	if originalPrice <= price || originalPrice <= 0 {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}

// Derive fills the computed fields that are not stored in Mongo.
func (p *Product) Derive() {
	p.DiscountPercentage = DiscountPercent(p.Price, p.OriginalPrice)
}

func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ProductStats is the aggregate over active products.
type ProductStats struct {
	TotalProducts int64   `bson:"totalProducts" json:"totalProducts"`
	TotalSales    int64   `bson:"totalSales" json:"totalSales"`
	TotalRevenue  float64 `bson:"totalRevenue" json:"totalRevenue"`
	AvgRating     float64 `bson:"avgRating" json:"avgRating"`
}
