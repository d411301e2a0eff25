package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvent_StartAtCombinesDateAndTime(t *testing.T) {
	ev := Event{StartDate: day(2025, 3, 10), StartTime: "14:30"}
	start := ev.StartAt()
	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), start)
}

func TestEvent_StartAtWithoutTimeString(t *testing.T) {
	withClock := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)
	ev := Event{StartDate: withClock}
	assert.Equal(t, withClock, ev.StartAt())
}

func TestEvent_StartAtIgnoresMalformedTime(t *testing.T) {
	ev := Event{StartDate: day(2025, 3, 10), StartTime: "half past two"}
	assert.Equal(t, day(2025, 3, 10), ev.StartAt())
}

func TestEvent_RegistrationDeadlineBoundary(t *testing.T) {
	ev := Event{StartDate: day(2025, 3, 10), StartTime: "10:00"}
	deadline := ev.RegistrationDeadline()
	require.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), deadline)

	assert.True(t, ev.RegistrationOpen(deadline.Add(-time.Second)), "open one second before the deadline")
	assert.False(t, ev.RegistrationOpen(deadline), "closed exactly at the deadline")
	assert.False(t, ev.RegistrationOpen(deadline.Add(time.Second)), "closed one second after the deadline")
}

func TestEvent_Full(t *testing.T) {
	ev := Event{MaxParticipants: 2, CurrentParticipants: 1}
	assert.False(t, ev.Full())

	ev.CurrentParticipants = 2
	assert.True(t, ev.Full())

	// zero max means unlimited
	unlimited := Event{MaxParticipants: 0, CurrentParticipants: 500}
	assert.False(t, unlimited.Full())
}

func TestEvent_HasVolunteer(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	ev := Event{RegisteredVolunteers: []RegisteredVolunteer{{UserID: a}}}

	assert.True(t, ev.HasVolunteer(a))
	assert.False(t, ev.HasVolunteer(b))
}

func TestEvent_HasExternalEmail(t *testing.T) {
	ev := Event{ExternalParticipants: []ExternalParticipant{{Email: "jay@example.com"}}}
	assert.True(t, ev.HasExternalEmail("jay@example.com"))
	assert.False(t, ev.HasExternalEmail("someone@example.com"))
}

func TestEvent_UpsertAttendanceReplacesNotDuplicates(t *testing.T) {
	volunteer := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	ev := Event{}

	ev.UpsertAttendance(AttendanceRecord{VolunteerID: volunteer, Status: AttendancePresent, MarkedBy: admin})
	require.Len(t, ev.Attendance, 1)

	ev.UpsertAttendance(AttendanceRecord{VolunteerID: volunteer, Status: AttendanceLate, Remarks: "arrived 20m late", MarkedBy: admin})
	require.Len(t, ev.Attendance, 1, "second mark for the same volunteer overwrites")
	assert.Equal(t, AttendanceLate, ev.Attendance[0].Status)
	assert.Equal(t, "arrived 20m late", ev.Attendance[0].Remarks)

	other := primitive.NewObjectID()
	ev.UpsertAttendance(AttendanceRecord{VolunteerID: other, Status: AttendanceAbsent, MarkedBy: admin})
	assert.Len(t, ev.Attendance, 2)
}

func TestEvent_FindAttendance(t *testing.T) {
	volunteer := primitive.NewObjectID()
	ev := Event{Attendance: []AttendanceRecord{{VolunteerID: volunteer, Status: AttendancePresent}}}

	rec := ev.FindAttendance(volunteer)
	require.NotNil(t, rec)
	assert.Equal(t, AttendancePresent, rec.Status)

	assert.Nil(t, ev.FindAttendance(primitive.NewObjectID()))
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		current string
		start   time.Time
		end     time.Time
		want    string
	}{
		{"upcoming stays upcoming", StatusUpcoming, now.Add(time.Hour), now.Add(2 * time.Hour), StatusUpcoming},
		{"upcoming becomes ongoing once started", StatusUpcoming, now.Add(-time.Hour), now.Add(time.Hour), StatusOngoing},
		{"upcoming jumps to completed after end", StatusUpcoming, now.Add(-3 * time.Hour), now.Add(-time.Hour), StatusCompleted},
		{"ongoing becomes completed after end", StatusOngoing, now.Add(-3 * time.Hour), now.Add(-time.Minute), StatusCompleted},
		{"start boundary counts as started", StatusUpcoming, now, now.Add(time.Hour), StatusOngoing},
		{"end boundary counts as completed", StatusOngoing, now.Add(-time.Hour), now, StatusCompleted},
		{"cancelled is sticky", StatusCancelled, now.Add(-time.Hour), now.Add(time.Hour), StatusCancelled},
		{"postponed is sticky", StatusPostponed, now.Add(-3 * time.Hour), now.Add(-time.Hour), StatusPostponed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.current, tt.start, tt.end, now))
		})
	}
}

func TestDeriveStatus_SameDayLateStart(t *testing.T) {
	// a same-day event with a late start time must not be marked ongoing in
	// the morning: the canonical instant includes the clock time
	ev := Event{StartDate: day(2025, 3, 10), StartTime: "18:00", EndDate: day(2025, 3, 10), EndTime: "21:00"}
	morning := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusUpcoming, DeriveStatus(StatusUpcoming, ev.StartAt(), ev.EndAt(), morning))
	assert.Equal(t, StatusOngoing, DeriveStatus(StatusUpcoming, ev.StartAt(), ev.EndAt(), evening))
}
