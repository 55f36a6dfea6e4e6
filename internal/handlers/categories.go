package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type CategoryCreateRequest struct {
	Name      map[string]string `json:"name" binding:"required"`
	SortOrder int               `json:"sortOrder"`
	Featured  bool              `json:"featured"`
	SpecKeys  []string          `json:"specKeys"`
	IsActive  *bool             `json:"isActive"`
}

type CategoryUpdateRequest struct {
	Name      map[string]string `json:"name"`
	SortOrder *int              `json:"sortOrder"`
	Featured  *bool             `json:"featured"`
	SpecKeys  []string          `json:"specKeys"`
	IsActive  *bool             `json:"isActive"`
}

func cleanLocalizedName(raw map[string]string) models.LocalizedName {
	name := models.LocalizedName{}
	for lang, value := range raw {
		lang = strings.ToLower(strings.TrimSpace(lang))
		value = strings.TrimSpace(value)
		if lang == "" || value == "" {
			continue
		}
		name[lang] = value
	}
	return name
}

func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if !strings.EqualFold(c.Query("includeInactive"), "true") {
			filter["isActive"] = true
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		opts := options.Find().SetSort(bson.D{
			{Key: "sortOrder", Value: 1},
			{Key: "createdAt", Value: 1},
		})
		cursor, err := db.Collection("categories").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := cleanLocalizedName(req.Name)
		if len(name) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name requires at least one non-empty translation"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		category := models.Category{
			Name:      name,
			IsActive:  isActive,
			SortOrder: req.SortOrder,
			Featured:  req.Featured,
			SpecKeys:  req.SpecKeys,
			CreatedAt: time.Now(),
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		category.ID = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req CategoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.Name != nil {
			name := cleanLocalizedName(req.Name)
			if len(name) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name requires at least one non-empty translation"})
				return
			}
			update["name"] = name
		}
		if req.SortOrder != nil {
			update["sortOrder"] = *req.SortOrder
		}
		if req.Featured != nil {
			update["featured"] = *req.Featured
		}
		if req.SpecKeys != nil {
			update["specKeys"] = req.SpecKeys
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}
		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var updated models.Category
		err = db.Collection("categories").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		// Categories referenced by products are deactivated, not removed,
		// so product listings keep resolving their category label.
		inUse, err := db.Collection("products").CountDocuments(ctx, bson.M{
			"category":  id.Hex(),
			"isDeleted": bson.M{"$ne": true},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if inUse > 0 {
			res, err := db.Collection("categories").UpdateOne(ctx,
				bson.M{"_id": id},
				bson.M{"$set": bson.M{"isActive": false}},
			)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
			if res.MatchedCount == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"deactivated": true, "productsInUse": inUse})
			return
		}

		res, err := db.Collection("categories").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
