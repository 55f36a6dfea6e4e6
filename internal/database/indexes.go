package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	})
	return err
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	_, err := db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_index"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
	})
	return err
}

func EnsureMovementIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	_, err := db.Collection("inventory_movements").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "productId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("productId_createdAt"),
	})
	return err
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	_, err := db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "source", Value: 1}},
			Options: options.Index().SetName("source_index"),
		},
	})
	return err
}

func EnsureCouponIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	_, err := db.Collection("coupons").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetName("code_unique").SetUnique(true),
	})
	return err
}
