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

// validAttendanceStatus is the set accepted from the marking UI.
var validAttendanceStatus = map[string]bool{
	models.AttendancePresent: true,
	models.AttendanceAbsent:  true,
	models.AttendanceLate:    true,
	models.AttendanceExcused: true,
}

// startsAfterToday compares calendar dates only; time of day is ignored so
// attendance can be marked on the morning of the event.
func startsAfterToday(startDate, now time.Time) bool {
	y1, m1, d1 := startDate.Date()
	y2, m2, d2 := now.Date()
	start := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return start.After(today)
}

// ---------------- ROSTER ----------------
func GetEventAttendance(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var event models.Event
		if err := cfg.Collection("events").FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		// join the registered volunteers' user documents for the roster
		ids := make([]primitive.ObjectID, 0, len(event.RegisteredVolunteers))
		for _, rv := range event.RegisteredVolunteers {
			ids = append(ids, rv.UserID)
		}

		volunteers := []models.User{}
		if len(ids) > 0 {
			cursor, err := cfg.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch volunteers"})
				return
			}
			if err := cursor.All(ctx, &volunteers); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode volunteers"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"event":      event,
			"volunteers": volunteers,
			"attendance": event.Attendance,
		})
	}
}

// MarkAttendanceInput is one row of a bulk marking request. Registrants the
// admin leaves unmarked are not defaulted by the server; the client submits
// absent explicitly.
type MarkAttendanceInput struct {
	VolunteerID string `json:"volunteer_id" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Remarks     string `json:"remarks"`
}

// ---------------- MARK ----------------
func MarkAttendance(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		markedBy, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		var input struct {
			Records []MarkAttendanceInput `json:"records" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		now := time.Now()
		if startsAfterToday(event.StartDate, now) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot mark attendance for a future event"})
			return
		}

		for _, rec := range input.Records {
			volunteerID, err := primitive.ObjectIDFromHex(rec.VolunteerID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volunteer id: " + rec.VolunteerID})
				return
			}
			if !validAttendanceStatus[rec.Status] {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attendance status: " + rec.Status})
				return
			}
			event.UpsertAttendance(models.AttendanceRecord{
				VolunteerID: volunteerID,
				Status:      rec.Status,
				Remarks:     rec.Remarks,
				MarkedBy:    markedBy,
				MarkedAt:    now,
			})
		}

		_, err = col.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
			"$set": bson.M{"attendance": event.Attendance, "updated_at": now},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save attendance"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Attendance marked",
			"attendance": event.Attendance,
		})
	}
}

// ---------------- HISTORY ----------------
// Personal attendance history: one row per Completed event holding a record
// for the volunteer. Events without a record are excluded, not reported as
// absent.
func GetVolunteerAttendanceHistory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		volunteerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volunteer id"})
			return
		}

		// self or admin only
		if c.GetString("role") != "admin" && c.GetString("user_id") != volunteerID.Hex() {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("events").Find(ctx, bson.M{
			"status":                  models.StatusCompleted,
			"attendance.volunteer_id": volunteerID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch attendance history"})
			return
		}

		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode events"})
			return
		}

		history := []gin.H{}
		for _, ev := range events {
			rec := ev.FindAttendance(volunteerID)
			if rec == nil {
				continue
			}
			history = append(history, gin.H{
				"event_id":  ev.ID,
				"title":     ev.Title,
				"date":      ev.StartDate.Format("2006-01-02"),
				"time":      ev.StartTime,
				"location":  ev.Location,
				"status":    rec.Status,
				"remarks":   rec.Remarks,
				"marked_at": rec.MarkedAt,
			})
		}

		c.JSON(http.StatusOK, history)
	}
}
