package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses.
const (
	StatusUpcoming  = "Upcoming"
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
	StatusPostponed = "Postponed"
)

// Registration types.
const (
	RegistrationMembers = "members"
	RegistrationPublic  = "public"
)

// RegistrationLeadTime is how long before the start instant member
// self-registration closes.
const RegistrationLeadTime = 2 * time.Hour

type RegisteredVolunteer struct {
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role         string             `bson:"role" json:"role"`
	Attended     bool               `bson:"attended" json:"attended"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
}

// ExternalParticipant is a self-contained registrant with no user account.
type ExternalParticipant struct {
	Name            string    `bson:"name" json:"name"`
	Email           string    `bson:"email" json:"email"`
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	ParticipantType string    `bson:"participant_type" json:"participant_type"` // student, staff
	Course          string    `bson:"course,omitempty" json:"course,omitempty"`
	Year            string    `bson:"year,omitempty" json:"year,omitempty"`
	UniversityID    string    `bson:"university_id,omitempty" json:"university_id,omitempty"`
	RegisteredAt    time.Time `bson:"registered_at" json:"registered_at"`
}

// Attendance statuses.
const (
	AttendancePresent   = "present"
	AttendanceAbsent    = "absent"
	AttendanceLate      = "late"
	AttendanceExcused   = "excused"
	AttendanceNotMarked = "not-marked"
)

type AttendanceRecord struct {
	VolunteerID primitive.ObjectID `bson:"volunteer_id" json:"volunteer_id"`
	Status      string             `bson:"status" json:"status"`
	Remarks     string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	MarkedBy    primitive.ObjectID `bson:"marked_by" json:"marked_by"`
	MarkedAt    time.Time          `bson:"marked_at" json:"marked_at"`
}

// EventNotification is an append-only audit entry for lifecycle changes.
type EventNotification struct {
	Kind      string    `bson:"kind" json:"kind"` // registration, unregistration, status_change
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Event struct {
	ID                   primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	CreatedBy            primitive.ObjectID    `bson:"created_by" json:"created_by"`
	Title                string                `bson:"title" json:"title"`
	Description          string                `bson:"description,omitempty" json:"description,omitempty"`
	Type                 string                `bson:"type,omitempty" json:"type,omitempty"`
	Location             string                `bson:"location,omitempty" json:"location,omitempty"`
	Requirements         string                `bson:"requirements,omitempty" json:"requirements,omitempty"`
	ImageURL             string                `bson:"image_url,omitempty" json:"image_url,omitempty"`
	StartDate            time.Time             `bson:"start_date" json:"start_date"`
	EndDate              time.Time             `bson:"end_date" json:"end_date"`
	StartTime            string                `bson:"start_time,omitempty" json:"start_time,omitempty"` // "15:04"
	EndTime              string                `bson:"end_time,omitempty" json:"end_time,omitempty"`
	MaxParticipants      int                   `bson:"max_participants" json:"max_participants"`
	CurrentParticipants  int                   `bson:"current_participants" json:"current_participants"`
	RegistrationType     string                `bson:"registration_type" json:"registration_type"`
	Status               string                `bson:"status" json:"status"`
	RegisteredVolunteers []RegisteredVolunteer `bson:"registered_volunteers" json:"registered_volunteers"`
	ExternalParticipants []ExternalParticipant `bson:"external_participants" json:"external_participants"`
	Attendance           []AttendanceRecord    `bson:"attendance" json:"attendance"`
	Notifications        []EventNotification   `bson:"notifications,omitempty" json:"notifications,omitempty"`
	CreatedAt            time.Time             `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time             `bson:"updated_at" json:"updated_at"`
}

// combine merges a clock-time string ("15:04") into a date. An empty or
// malformed clock string leaves the date's own time of day untouched, so
// events created with full timestamps keep working.
func combine(date time.Time, clock string) time.Time {
	if clock == "" {
		return date
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location())
}

// StartAt is the canonical start instant: the start date combined with
// the start-time string. Every time comparison in the service (deadline,
// unregister cutoff, status sweep) goes through this.
func (e *Event) StartAt() time.Time {
	return combine(e.StartDate, e.StartTime)
}

// EndAt is the canonical end instant.
func (e *Event) EndAt() time.Time {
	return combine(e.EndDate, e.EndTime)
}

// RegistrationDeadline is the instant after which member self-registration
// is rejected.
func (e *Event) RegistrationDeadline() time.Time {
	return e.StartAt().Add(-RegistrationLeadTime)
}

// RegistrationOpen reports whether a member may still register at now.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return now.Before(e.RegistrationDeadline())
}

// Full reports whether the event has reached capacity.
func (e *Event) Full() bool {
	return e.MaxParticipants > 0 && e.CurrentParticipants >= e.MaxParticipants
}

// HasVolunteer reports whether the user already appears in registered_volunteers.
func (e *Event) HasVolunteer(userID primitive.ObjectID) bool {
	for _, rv := range e.RegisteredVolunteers {
		if rv.UserID == userID {
			return true
		}
	}
	return false
}

// HasExternalEmail reports whether an external participant with this email
// is already registered.
func (e *Event) HasExternalEmail(email string) bool {
	for _, p := range e.ExternalParticipants {
		if p.Email == email {
			return true
		}
	}
	return false
}

// FindAttendance returns the attendance record for a volunteer, or nil.
func (e *Event) FindAttendance(volunteerID primitive.ObjectID) *AttendanceRecord {
	for i := range e.Attendance {
		if e.Attendance[i].VolunteerID == volunteerID {
			return &e.Attendance[i]
		}
	}
	return nil
}

// UpsertAttendance replaces the volunteer's record if present, otherwise
// appends it. At most one record per volunteer per event.
func (e *Event) UpsertAttendance(rec AttendanceRecord) {
	for i := range e.Attendance {
		if e.Attendance[i].VolunteerID == rec.VolunteerID {
			e.Attendance[i] = rec
			return
		}
	}
	e.Attendance = append(e.Attendance, rec)
}

// DeriveStatus returns the lifecycle status implied by the schedule at now.
// Cancelled and Postponed are sticky: the sweep never overrides them.
func DeriveStatus(current string, startAt, endAt, now time.Time) string {
	if current == StatusCancelled || current == StatusPostponed {
		return current
	}
	if !endAt.After(now) {
		return StatusCompleted
	}
	if !startAt.After(now) {
		return StatusOngoing
	}
	return StatusUpcoming
}
