package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	models "github.com/gitbyjay25/nss-portal-backend/models"
)

// ---------------- SUBMIT ----------------
// Public; no account required.
func SubmitFeedback(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name    string `json:"name" binding:"required"`
			Email   string `json:"email" binding:"required,email"`
			Subject string `json:"subject"`
			Message string `json:"message" binding:"required"`
			Rating  int    `json:"rating"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.Rating < 0 || input.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
			return
		}

		fb := models.Feedback{
			ID:        primitive.NewObjectID(),
			Name:      input.Name,
			Email:     strings.ToLower(strings.TrimSpace(input.Email)),
			Subject:   input.Subject,
			Message:   input.Message,
			Rating:    input.Rating,
			CreatedAt: time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("feedback").InsertOne(ctx, fb); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit feedback"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "feedback submitted", "id": fb.ID.Hex()})
	}
}

// ---------------- LIST ----------------
func ListFeedback(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := cfg.Collection("feedback").Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch feedback"})
			return
		}

		var items []models.Feedback
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode feedback"})
			return
		}

		c.JSON(http.StatusOK, items)
	}
}
