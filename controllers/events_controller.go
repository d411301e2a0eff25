package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	models "github.com/gitbyjay25/nss-portal-backend/models"
	scheduler "github.com/gitbyjay25/nss-portal-backend/scheduler"
	utils "github.com/gitbyjay25/nss-portal-backend/utils"
)

// parseDate accepts RFC3339 or plain date/time layouts.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// ---------------- CREATE ----------------
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Title            string `form:"title" binding:"required"`
			Description      string `form:"description"`
			Type             string `form:"type"`
			Location         string `form:"location"`
			Requirements     string `form:"requirements"`
			StartDate        string `form:"start_date" binding:"required"`
			EndDate          string `form:"end_date" binding:"required"`
			StartTime        string `form:"start_time"`
			EndTime          string `form:"end_time"`
			MaxParticipants  int    `form:"max_participants"`
			RegistrationType string `form:"registration_type"`
			Status           string `form:"status"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		startDate, err := parseDate(input.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, use RFC3339 or YYYY-MM-DD"})
			return
		}
		endDate, err := parseDate(input.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, use RFC3339 or YYYY-MM-DD"})
			return
		}

		if input.RegistrationType == "" {
			input.RegistrationType = models.RegistrationMembers
		}
		if input.RegistrationType != models.RegistrationMembers && input.RegistrationType != models.RegistrationPublic {
			c.JSON(http.StatusBadRequest, gin.H{"error": "registration_type must be members or public"})
			return
		}

		// --- Optional image upload ---
		var imageURL string
		if fileHeader, err := c.FormFile("image"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			imageURL, err = utils.UploadToCloudinary(file, "events")
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "image upload failed",
					"details": err.Error(),
				})
				return
			}
		}

		now := time.Now()
		event := models.Event{
			ID:                   primitive.NewObjectID(),
			CreatedBy:            userID,
			Title:                input.Title,
			Description:          input.Description,
			Type:                 input.Type,
			Location:             input.Location,
			Requirements:         input.Requirements,
			ImageURL:             imageURL,
			StartDate:            startDate,
			EndDate:              endDate,
			StartTime:            input.StartTime,
			EndTime:              input.EndTime,
			MaxParticipants:      input.MaxParticipants,
			RegistrationType:     input.RegistrationType,
			RegisteredVolunteers: []models.RegisteredVolunteer{},
			ExternalParticipants: []models.ExternalParticipant{},
			Attendance:           []models.AttendanceRecord{},
			CreatedAt:            now,
			UpdatedAt:            now,
		}

		// status auto-derived from schedule unless set explicitly
		if input.Status != "" {
			event.Status = input.Status
		} else {
			event.Status = models.DeriveStatus(models.StatusUpcoming, event.StartAt(), event.EndAt(), now)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("events").InsertOne(ctx, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
			return
		}

		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST ----------------
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := cfg.Collection("events").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode events"})
			return
		}

		if len(events) == 0 {
			c.JSON(http.StatusOK, []models.Event{})
			return
		}

		// --- ETag / Last-Modified from most recently updated event ---
		latest := events[0]
		for _, ev := range events {
			if ev.UpdatedAt.After(latest.UpdatedAt) {
				latest = ev
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, events)
	}
}

// ---------------- GET ----------------
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		var event models.Event
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = cfg.Collection("events").FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		etag := utils.GenerateETag(event.ID, event.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, event)
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		var input struct {
			Title            string `form:"title"`
			Description      string `form:"description"`
			Type             string `form:"type"`
			Location         string `form:"location"`
			Requirements     string `form:"requirements"`
			StartDate        string `form:"start_date"`
			EndDate          string `form:"end_date"`
			StartTime        string `form:"start_time"`
			EndTime          string `form:"end_time"`
			MaxParticipants  int    `form:"max_participants"`
			RegistrationType string `form:"registration_type"`
			Status           string `form:"status"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}

		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Description != "" {
			update["description"] = input.Description
		}
		if input.Type != "" {
			update["type"] = input.Type
		}
		if input.Location != "" {
			update["location"] = input.Location
		}
		if input.Requirements != "" {
			update["requirements"] = input.Requirements
		}
		if input.StartDate != "" {
			parsed, err := parseDate(input.StartDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["start_date"] = parsed
		}
		if input.EndDate != "" {
			parsed, err := parseDate(input.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["end_date"] = parsed
		}
		if input.StartTime != "" {
			update["start_time"] = input.StartTime
		}
		if input.EndTime != "" {
			update["end_time"] = input.EndTime
		}
		if input.MaxParticipants > 0 {
			update["max_participants"] = input.MaxParticipants
		}
		if input.RegistrationType != "" {
			update["registration_type"] = input.RegistrationType
		}
		if input.Status != "" {
			update["status"] = input.Status
		}

		// --- Optional replacement image ---
		if fileHeader, err := c.FormFile("image"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
				return
			}
			url, err := utils.UploadToCloudinary(file, "events")
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
				return
			}
			update["image_url"] = url
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if _, err := col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
			return
		}

		var updated models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Event updated successfully",
			"event":   updated,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		if existing.ImageURL != "" {
			utils.DeleteFromCloudinary(existing.ImageURL)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "event deleted successfully",
			"id":      oid.Hex(),
		})
	}
}

// ---------------- REGISTER ----------------
func RegisterForEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		var input struct {
			Role string `json:"role"`
		}
		_ = c.ShouldBindJSON(&input)
		if input.Role == "" {
			input.Role = "Participant"
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		now := time.Now()
		if event.Full() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event is full"})
			return
		}
		if event.HasVolunteer(userID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already registered for this event"})
			return
		}
		if !event.RegistrationOpen(now) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Registration is closed"})
			return
		}

		entry := models.RegisteredVolunteer{
			UserID:       userID,
			Role:         input.Role,
			RegisteredAt: now,
		}
		notif := models.EventNotification{
			Kind:      "registration",
			Message:   "Volunteer " + userID.Hex() + " registered",
			CreatedAt: now,
		}

		// The filter re-checks capacity and membership so two concurrent
		// registrations cannot oversubscribe the event.
		filter := bson.M{
			"_id":                           eventID,
			"registered_volunteers.user_id": bson.M{"$ne": userID},
		}
		if event.MaxParticipants > 0 {
			filter["$expr"] = bson.M{"$lt": bson.A{"$current_participants", "$max_participants"}}
		}
		res, err := col.UpdateOne(ctx, filter, bson.M{
			"$push": bson.M{"registered_volunteers": entry, "notifications": notif},
			"$inc":  bson.M{"current_participants": 1},
			"$set":  bson.M{"updated_at": now},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
			return
		}
		if res.ModifiedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event is full"})
			return
		}

		var updated models.Event
		if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Registered successfully",
			"event":   updated,
		})
	}
}

// ---------------- UNREGISTER ----------------
func UnregisterFromEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		if !event.HasVolunteer(userID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not registered for this event"})
			return
		}

		now := time.Now()
		if !now.Before(event.StartAt()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot unregister from an event that has started"})
			return
		}

		notif := models.EventNotification{
			Kind:      "unregistration",
			Message:   "Volunteer " + userID.Hex() + " unregistered",
			CreatedAt: now,
		}
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": eventID, "registered_volunteers.user_id": userID},
			bson.M{
				"$pull": bson.M{"registered_volunteers": bson.M{"user_id": userID}},
				"$inc":  bson.M{"current_participants": -1},
				"$push": bson.M{"notifications": notif},
				"$set":  bson.M{"updated_at": now},
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not unregister"})
			return
		}
		if res.ModifiedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not registered for this event"})
			return
		}

		// counter floors at 0
		col.UpdateOne(ctx,
			bson.M{"_id": eventID, "current_participants": bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{"current_participants": 0}})

		var updated models.Event
		if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Unregistered successfully",
			"event":   updated,
		})
	}
}

// ExternalRegistrationInput carries the public signup form. Required
// fields depend on the participant type: students must provide course,
// year and university id; staff only name/email.
type ExternalRegistrationInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ParticipantType string `json:"participant_type"`
	Course          string `json:"course"`
	Year            string `json:"year"`
	UniversityID    string `json:"university_id"`
}

// Validate returns a field-level message for the first missing field.
func (in *ExternalRegistrationInput) Validate() string {
	if strings.TrimSpace(in.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		return "email is required"
	}
	switch in.ParticipantType {
	case "student":
		if strings.TrimSpace(in.Course) == "" {
			return "course is required for students"
		}
		if strings.TrimSpace(in.Year) == "" {
			return "year is required for students"
		}
		if strings.TrimSpace(in.UniversityID) == "" {
			return "university_id is required for students"
		}
	case "staff":
		// no extra fields
	default:
		return "participant_type must be student or staff"
	}
	return ""
}

// ---------------- EXTERNAL REGISTER ----------------
// Public, unauthenticated path for non-members.
func ExternalRegister(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		var input ExternalRegistrationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if msg := input.Validate(); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		if event.RegistrationType != models.RegistrationPublic {
			c.JSON(http.StatusForbidden, gin.H{"error": "event is not open for public registration"})
			return
		}
		if event.HasExternalEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered for this event"})
			return
		}
		if event.Full() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event is full"})
			return
		}

		now := time.Now()
		participant := models.ExternalParticipant{
			Name:            input.Name,
			Email:           email,
			Phone:           input.Phone,
			ParticipantType: input.ParticipantType,
			Course:          input.Course,
			Year:            input.Year,
			UniversityID:    input.UniversityID,
			RegisteredAt:    now,
		}

		filter := bson.M{
			"_id":                         eventID,
			"external_participants.email": bson.M{"$ne": email},
		}
		if event.MaxParticipants > 0 {
			filter["$expr"] = bson.M{"$lt": bson.A{"$current_participants", "$max_participants"}}
		}
		res, err := col.UpdateOne(ctx, filter, bson.M{
			"$push": bson.M{"external_participants": participant},
			"$inc":  bson.M{"current_participants": 1},
			"$set":  bson.M{"updated_at": now},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
			return
		}
		if res.ModifiedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event is full"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":     "Registered successfully",
			"participant": participant,
		})
	}
}

// ---------------- STATUS SWEEP (manual trigger) ----------------
func UpdateEventStatuses(sweeper *scheduler.StatusUpdater) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := sweeper.Tick(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "status update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":      "Event statuses updated",
			"transitioned": n,
		})
	}
}
