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

// ---------------- CREATE ----------------
func CreateTeam(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name        string              `json:"name" binding:"required"`
			Description string              `json:"description"`
			Members     []models.TeamMember `json:"members"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		team := models.Team{
			ID:          primitive.NewObjectID(),
			Name:        input.Name,
			Description: input.Description,
			Members:     input.Members,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if team.Members == nil {
			team.Members = []models.TeamMember{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("teams").InsertOne(ctx, team); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create team"})
			return
		}

		c.JSON(http.StatusCreated, team)
	}
}

// ---------------- LIST ----------------
func ListTeams(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("teams").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch teams"})
			return
		}

		var teams []models.Team
		if err := cursor.All(ctx, &teams); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode teams"})
			return
		}

		c.JSON(http.StatusOK, teams)
	}
}

// ---------------- UPDATE ----------------
func UpdateTeam(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
			return
		}

		var input struct {
			Name        *string              `json:"name"`
			Description *string              `json:"description"`
			Members     *[]models.TeamMember `json:"members"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Name != nil {
			update["name"] = *input.Name
		}
		if input.Description != nil {
			update["description"] = *input.Description
		}
		if input.Members != nil {
			update["members"] = *input.Members
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("teams").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update team"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "team updated successfully"})
	}
}

// ---------------- DELETE ----------------
func DeleteTeam(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("teams").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete team"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "team deleted successfully",
			"id":      oid.Hex(),
		})
	}
}
