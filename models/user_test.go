package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_ApplyNSS_FirstApplication(t *testing.T) {
	u := User{NSSApplicationStatus: NSSNotApplied}

	err := u.ApplyNSS(NSSApplicationData{Motivation: "community service", SubmittedAt: time.Now()})
	require.NoError(t, err)

	assert.True(t, u.HasAppliedToNSS)
	assert.Equal(t, NSSPending, u.NSSApplicationStatus)
	assert.Equal(t, 0, u.ReapplicationCount)
	require.NotNil(t, u.NSSApplicationData)
	assert.Equal(t, "community service", u.NSSApplicationData.Motivation)
}

func TestUser_ApplyNSS_ResubmitAfterRejection(t *testing.T) {
	u := User{
		HasAppliedToNSS:      true,
		NSSApplicationStatus: NSSRejected,
		NSSApplicationData:   &NSSApplicationData{Motivation: "old"},
	}

	require.NoError(t, u.ApplyNSS(NSSApplicationData{Motivation: "new and improved"}))
	assert.Equal(t, NSSPending, u.NSSApplicationStatus)
	assert.Equal(t, 1, u.ReapplicationCount)
	assert.Equal(t, "new and improved", u.NSSApplicationData.Motivation, "snapshot replaced on resubmission")

	// rejected again, resubmits again
	require.NoError(t, u.ReviewNSS(false))
	require.NoError(t, u.ApplyNSS(NSSApplicationData{Motivation: "third time"}))
	assert.Equal(t, 2, u.ReapplicationCount)
}

func TestUser_ApplyNSS_ApprovedIsTerminal(t *testing.T) {
	u := User{HasAppliedToNSS: true, NSSApplicationStatus: NSSApproved}

	err := u.ApplyNSS(NSSApplicationData{Motivation: "again"})
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Equal(t, NSSApproved, u.NSSApplicationStatus)
}

func TestUser_ApplyNSS_PendingBlocksDuplicate(t *testing.T) {
	u := User{HasAppliedToNSS: true, NSSApplicationStatus: NSSPending}

	err := u.ApplyNSS(NSSApplicationData{Motivation: "duplicate"})
	assert.ErrorIs(t, err, ErrApplicationPending)
}

func TestUser_ReviewNSS(t *testing.T) {
	u := User{NSSApplicationStatus: NSSPending}
	require.NoError(t, u.ReviewNSS(true))
	assert.Equal(t, NSSApproved, u.NSSApplicationStatus)

	u = User{NSSApplicationStatus: NSSPending}
	require.NoError(t, u.ReviewNSS(false))
	assert.Equal(t, NSSRejected, u.NSSApplicationStatus)

	// only pending applications can be reviewed
	u = User{NSSApplicationStatus: NSSNotApplied}
	assert.ErrorIs(t, u.ReviewNSS(true), ErrNotPending)

	u = User{NSSApplicationStatus: NSSApproved}
	assert.ErrorIs(t, u.ReviewNSS(false), ErrNotPending)
}
