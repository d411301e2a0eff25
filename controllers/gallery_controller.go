package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	models "github.com/gitbyjay25/nss-portal-backend/models"
	utils "github.com/gitbyjay25/nss-portal-backend/utils"
)

// ---------------- CREATE ----------------
func CreateGalleryItem(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Title       string `form:"title" binding:"required"`
			Description string `form:"description"`
			Category    string `form:"category"`
			EventID     string `form:"event_id"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return
		}
		imageURL, err := utils.UploadToCloudinary(file, "gallery")
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "image upload failed",
				"details": err.Error(),
			})
			return
		}

		now := time.Now()
		item := models.GalleryItem{
			ID:          primitive.NewObjectID(),
			UploadedBy:  userID,
			Title:       input.Title,
			Description: input.Description,
			Category:    input.Category,
			ImageURL:    imageURL,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if input.EventID != "" {
			if eventID, err := primitive.ObjectIDFromHex(input.EventID); err == nil {
				item.EventID = eventID
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("gallery").InsertOne(ctx, item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create gallery item"})
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

// ---------------- LIST ----------------
func ListGalleryItems(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if eventID := c.Query("event_id"); eventID != "" {
			if oid, err := primitive.ObjectIDFromHex(eventID); err == nil {
				filter["event_id"] = oid
			}
		}

		cursor, err := cfg.Collection("gallery").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch gallery"})
			return
		}

		var items []models.GalleryItem
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode gallery"})
			return
		}

		if len(items) == 0 {
			c.JSON(http.StatusOK, []models.GalleryItem{})
			return
		}

		latest := items[0]
		for _, it := range items {
			if it.UpdatedAt.After(latest.UpdatedAt) {
				latest = it
			}
		}
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, items)
	}
}

// ---------------- DELETE ----------------
func DeleteGalleryItem(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gallery item id"})
			return
		}

		col := cfg.Collection("gallery")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.GalleryItem
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "gallery item not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete gallery item"})
			return
		}

		if existing.ImageURL != "" {
			utils.DeleteFromCloudinary(existing.ImageURL)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "gallery item deleted successfully",
			"id":      oid.Hex(),
		})
	}
}
