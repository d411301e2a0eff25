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
)

// ---------------- LIST ----------------
func ListUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if role := c.Query("role"); role != "" {
			filter["role"] = role
		}
		if status := c.Query("nss_status"); status != "" {
			filter["nss_application_status"] = status
		}
		if q := c.Query("q"); q != "" {
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := cfg.Collection("users").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch users"})
			return
		}

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode users"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// ---------------- GET ----------------
func GetUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		// self or admin
		if c.GetString("role") != "admin" && c.GetString("user_id") != userID.Hex() {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// ---------------- UPDATE ----------------
func UpdateUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		role := c.GetString("role")
		if role != "admin" && c.GetString("user_id") != userID.Hex() {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		var input struct {
			Name   string `json:"name"`
			Phone  string `json:"phone"`
			Course string `json:"course"`
			Year   string `json:"year"`
			Role   string `json:"role"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Name != "" {
			update["name"] = input.Name
		}
		if input.Phone != "" {
			update["phone"] = input.Phone
		}
		if input.Course != "" {
			update["course"] = input.Course
		}
		if input.Year != "" {
			update["year"] = input.Year
		}
		// only admins may change roles
		if input.Role != "" && role == "admin" {
			update["role"] = input.Role
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		var updated models.User
		if err := col.FindOne(ctx, bson.M{"_id": userID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated user"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("users").DeleteOne(ctx, bson.M{"_id": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "user deleted successfully",
			"id":      userID.Hex(),
		})
	}
}
