package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().
				SetName("slug_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}},
			Options: options.Index().SetName("isActive_index"),
		},
		{
			Keys:    bson.D{{Key: "isPopular", Value: 1}},
			Options: options.Index().SetName("isPopular_index"),
		},
	}

	log.Println("EnsureProductIndexes: creating product indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureProductIndexes: index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: product indexes created")
	return nil
}

func EnsureSubscriberIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("subscribers").Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "subscribedAt", Value: -1}},
			Options: options.Index().SetName("subscribedAt_index"),
		},
		{
			Keys:    bson.D{{Key: "source", Value: 1}},
			Options: options.Index().SetName("source_index"),
		},
	}

	log.Println("EnsureSubscriberIndexes: creating subscriber indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureSubscriberIndexes: index error:", err)
		return err
	}
	log.Println("EnsureSubscriberIndexes: subscriber indexes created")
	return nil
}
