package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	models "github.com/gitbyjay25/nss-portal-backend/models"
	utils "github.com/gitbyjay25/nss-portal-backend/utils"
)

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name     string `json:"name" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=6"`
			Phone    string `json:"phone"`
			Course   string `json:"course"`
			Year     string `json:"year"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.User
		err := col.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check email"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}

		now := time.Now()
		user := models.User{
			ID:                   primitive.NewObjectID(),
			Name:                 input.Name,
			Email:                email,
			Password:             string(hash),
			Role:                 "volunteer",
			Phone:                input.Phone,
			Course:               input.Course,
			Year:                 input.Year,
			NSSApplicationStatus: models.NSSNotApplied,
			CreatedAt:            now,
			UpdatedAt:            now,
		}

		if _, err := col.InsertOne(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}

		token, err := utils.GenerateJWT(cfg.JWTSecret, user.ID.Hex(), user.Role, cfg.JWTExpMin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err := cfg.Collection("users").FindOne(ctx, bson.M{
			"email": strings.ToLower(strings.TrimSpace(input.Email)),
		}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := utils.GenerateJWT(cfg.JWTSecret, user.ID.Hex(), user.Role, cfg.JWTExpMin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// ---------------- ME ----------------
func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
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

// ---------------- APPLY NSS ----------------
// Submit or resubmit the NSS volunteer application. A rejected applicant
// may apply again; approval is terminal.
func ApplyNSS(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Motivation   string `json:"motivation" binding:"required"`
			Skills       string `json:"skills"`
			Availability string `json:"availability"`
			Experience   string `json:"experience"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := col.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		now := time.Now()
		err = user.ApplyNSS(models.NSSApplicationData{
			Motivation:   input.Motivation,
			Skills:       input.Skills,
			Availability: input.Availability,
			Experience:   input.Experience,
			SubmittedAt:  now,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err = col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
			"has_applied_to_nss":     user.HasAppliedToNSS,
			"nss_application_status": user.NSSApplicationStatus,
			"nss_application_data":   user.NSSApplicationData,
			"reapplication_count":    user.ReapplicationCount,
			"updated_at":             now,
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save application"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":             "Application submitted",
			"status":              user.NSSApplicationStatus,
			"reapplication_count": user.ReapplicationCount,
		})
	}
}

// ---------------- LIST APPLICATIONS ----------------
func ListNSSApplications(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{"has_applied_to_nss": true}
		if status := c.Query("status"); status != "" {
			filter["nss_application_status"] = status
		}

		cursor, err := cfg.Collection("users").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch applications"})
			return
		}

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode applications"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// ---------------- REVIEW APPLICATION ----------------
// Settle a pending application. The decision email is best-effort.
func ReviewNSSApplication(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		applicantID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Status  string `json:"status" binding:"required"`
			Remarks string `json:"remarks"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.Status != models.NSSApproved && input.Status != models.NSSRejected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
			return
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := col.FindOne(ctx, bson.M{"_id": applicantID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		if err := user.ReviewNSS(input.Status == models.NSSApproved); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err = col.UpdateOne(ctx, bson.M{"_id": applicantID}, bson.M{"$set": bson.M{
			"nss_application_status": user.NSSApplicationStatus,
			"updated_at":             time.Now(),
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save review"})
			return
		}

		if err := utils.SendNSSDecisionEmail(user.Email, user.Name, user.NSSApplicationStatus, input.Remarks); err != nil {
			log.Printf("decision email to %s failed: %v", user.Email, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Application " + user.NSSApplicationStatus,
			"status":  user.NSSApplicationStatus,
		})
	}
}
