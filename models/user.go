package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NSS application statuses.
const (
	NSSNotApplied = "not_applied"
	NSSPending    = "pending"
	NSSApproved   = "approved"
	NSSRejected   = "rejected"
)

// NSSApplicationData is the snapshot submitted with an application. It is
// replaced wholesale on every (re)submission.
type NSSApplicationData struct {
	Motivation   string    `bson:"motivation" json:"motivation"`
	Skills       string    `bson:"skills,omitempty" json:"skills,omitempty"`
	Availability string    `bson:"availability,omitempty" json:"availability,omitempty"`
	Experience   string    `bson:"experience,omitempty" json:"experience,omitempty"`
	SubmittedAt  time.Time `bson:"submitted_at" json:"submitted_at"`
}

type User struct {
	ID                   primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name                 string              `bson:"name" json:"name"`
	Email                string              `bson:"email" json:"email"`
	Password             string              `bson:"password_hash" json:"-"`
	Role                 string              `bson:"role" json:"role"` // volunteer, admin
	Phone                string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Course               string              `bson:"course,omitempty" json:"course,omitempty"`
	Year                 string              `bson:"year,omitempty" json:"year,omitempty"`
	HasAppliedToNSS      bool                `bson:"has_applied_to_nss" json:"has_applied_to_nss"`
	NSSApplicationStatus string              `bson:"nss_application_status" json:"nss_application_status"`
	NSSApplicationData   *NSSApplicationData `bson:"nss_application_data,omitempty" json:"nss_application_data,omitempty"`
	ReapplicationCount   int                 `bson:"reapplication_count" json:"reapplication_count"`
	CreatedAt            time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `bson:"updated_at" json:"updated_at"`
}

var (
	ErrAlreadyApproved    = errors.New("application already approved")
	ErrApplicationPending = errors.New("application already pending review")
	ErrNotPending         = errors.New("application is not pending")
)

// ApplyNSS moves the user into the pending state with a fresh snapshot.
// Allowed from not_applied and rejected; a rejected applicant resubmitting
// bumps the reapplication counter. Approved is terminal, and a pending
// application cannot be submitted over.
func (u *User) ApplyNSS(data NSSApplicationData) error {
	switch u.NSSApplicationStatus {
	case NSSApproved:
		return ErrAlreadyApproved
	case NSSPending:
		return ErrApplicationPending
	case NSSRejected:
		u.ReapplicationCount++
	}
	u.HasAppliedToNSS = true
	u.NSSApplicationStatus = NSSPending
	u.NSSApplicationData = &data
	return nil
}

// ReviewNSS settles a pending application as approved or rejected.
func (u *User) ReviewNSS(approved bool) error {
	if u.NSSApplicationStatus != NSSPending {
		return ErrNotPending
	}
	if approved {
		u.NSSApplicationStatus = NSSApproved
	} else {
		u.NSSApplicationStatus = NSSRejected
	}
	return nil
}
