package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	models "github.com/gitbyjay25/nss-portal-backend/models"
)

// AttendanceReportRow is one line of the full-population report: every
// currently-approved NSS volunteer, whether or not they registered.
type AttendanceReportRow struct {
	VolunteerID string `json:"volunteer_id" csv:"volunteer_id"`
	Name        string `json:"name" csv:"name"`
	Email       string `json:"email" csv:"email"`
	Registered  bool   `json:"registered" csv:"registered"`
	Status      string `json:"status" csv:"status"`
	Remarks     string `json:"remarks,omitempty" csv:"remarks"`
	MarkedAt    string `json:"marked_at,omitempty" csv:"marked_at"`
}

// BuildAttendanceReport cross-references the approved volunteer population
// against the event's attendance list. Volunteers with no record are
// reported as not-marked.
func BuildAttendanceReport(event *models.Event, volunteers []models.User) []AttendanceReportRow {
	rows := make([]AttendanceReportRow, 0, len(volunteers))
	for _, v := range volunteers {
		row := AttendanceReportRow{
			VolunteerID: v.ID.Hex(),
			Name:        v.Name,
			Email:       v.Email,
			Registered:  event.HasVolunteer(v.ID),
			Status:      models.AttendanceNotMarked,
		}
		if rec := event.FindAttendance(v.ID); rec != nil {
			row.Status = rec.Status
			row.Remarks = rec.Remarks
			row.MarkedAt = rec.MarkedAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows
}

// CountReportStatuses tallies rows per status, the figure the admin
// dashboard displays.
func CountReportStatuses(rows []AttendanceReportRow) map[string]int {
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.Status]++
	}
	return counts
}

// ---------------- EXPORT ----------------
// ?format=csv streams a CSV download; the default is JSON rows plus counts.
func ExportAttendanceReport(cfg *config.Config) gin.HandlerFunc {
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

		cursor, err := cfg.Collection("users").Find(ctx, bson.M{
			"nss_application_status": models.NSSApproved,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch volunteers"})
			return
		}

		var volunteers []models.User
		if err := cursor.All(ctx, &volunteers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode volunteers"})
			return
		}

		rows := BuildAttendanceReport(&event, volunteers)

		if c.Query("format") == "csv" {
			csvData, err := gocsv.MarshalString(&rows)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build csv"})
				return
			}
			c.Header("Content-Disposition", `attachment; filename="attendance-`+eventID.Hex()+`.csv"`)
			c.Data(http.StatusOK, "text/csv", []byte(csvData))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"event_id": event.ID,
			"title":    event.Title,
			"rows":     rows,
			"counts":   CountReportStatuses(rows),
		})
	}
}
