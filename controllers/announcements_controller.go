package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	models "github.com/gitbyjay25/nss-portal-backend/models"
)

// ---------------- CREATE ----------------
func CreateAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Title    string `json:"title" binding:"required"`
			Body     string `json:"body" binding:"required"`
			Priority string `json:"priority"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.Priority == "" {
			input.Priority = "normal"
		}

		now := time.Now()
		ann := models.Announcement{
			ID:        primitive.NewObjectID(),
			CreatedBy: userID,
			Title:     input.Title,
			Body:      input.Body,
			Priority:  input.Priority,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("announcements").InsertOne(ctx, ann); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create announcement"})
			return
		}

		c.JSON(http.StatusCreated, ann)
	}
}

// ---------------- LIST ----------------
// Public list; newest first, active only unless ?all=true (admin dashboards
// pass it).
func ListAnnouncements(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{"active": true}
		if c.Query("all") == "true" {
			filter = bson.M{}
		}

		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := cfg.Collection("announcements").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch announcements"})
			return
		}

		var anns []models.Announcement
		if err := cursor.All(ctx, &anns); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode announcements"})
			return
		}

		c.JSON(http.StatusOK, anns)
	}
}

// ---------------- UPDATE ----------------
func UpdateAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
			return
		}

		var input struct {
			Title    *string `json:"title"`
			Body     *string `json:"body"`
			Priority *string `json:"priority"`
			Active   *bool   `json:"active"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != nil {
			update["title"] = *input.Title
		}
		if input.Body != nil {
			update["body"] = *input.Body
		}
		if input.Priority != nil {
			update["priority"] = *input.Priority
		}
		if input.Active != nil {
			update["active"] = *input.Active
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("announcements").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update announcement"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "announcement updated successfully"})
	}
}

// ---------------- DELETE ----------------
func DeleteAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("announcements").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete announcement"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "announcement deleted successfully",
			"id":      oid.Hex(),
		})
	}
}
