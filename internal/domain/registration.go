package domain

import (
	"fmt"
	"time"
)

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
	RegistrationStatusKicked   RegistrationStatus = "kicked"
	RegistrationStatusLeft     RegistrationStatus = "left"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusApproved, RegistrationStatusRejected,
		RegistrationStatusKicked, RegistrationStatusLeft:
		return true
	}
	return false
}

// Active reports whether a request in this status blocks a new application
// for the same chapter.
func (s RegistrationStatus) Active() bool {
	return s == RegistrationStatusPending || s == RegistrationStatusApproved
}

type RegistrationRequest struct {
	RegistrationID string             `json:"registrationId" firestore:"registrationId"`
	UserID         string             `json:"userId" firestore:"userId"`
	StudentName    string             `json:"studentName" firestore:"studentName"`
	StudentEmail   string             `json:"studentEmail" firestore:"studentEmail"`
	ChapterID      string             `json:"chapterId" firestore:"chapterId"`
	ChapterName    string             `json:"chapterName" firestore:"chapterName"`
	Status         RegistrationStatus `json:"status" firestore:"status"`
	AppliedAt      time.Time          `json:"appliedAt" firestore:"appliedAt"`
	ProcessedAt    *time.Time         `json:"processedAt,omitempty" firestore:"processedAt,omitempty"`
	ProcessedBy    string             `json:"processedBy,omitempty" firestore:"processedBy,omitempty"`
	Notes          string             `json:"notes,omitempty" firestore:"notes,omitempty"`
	SapID          string             `json:"sapId" firestore:"sapId"`
	Year           string             `json:"year" firestore:"year"`
}

// StatusUpdate is the set of fields stamped on a registration when it changes state.
// A nil Notes leaves the stored notes untouched.
type StatusUpdate struct {
	Status      RegistrationStatus
	ProcessedAt time.Time
	ProcessedBy string
	Notes       *string
}

func (r *RegistrationRequest) Apply(u StatusUpdate) {
	r.Status = u.Status
	at := u.ProcessedAt
	r.ProcessedAt = &at
	r.ProcessedBy = u.ProcessedBy
	if u.Notes != nil {
		r.Notes = *u.Notes
	}
}

func NewRegistrationID(userID, chapterID string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%d", userID, chapterID, at.UnixMilli())
}
