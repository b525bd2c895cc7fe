package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityRegistration        ActivityType = "registration"
	ActivityStudentRemoved      ActivityType = "student_removed"
	ActivityMemberLeft          ActivityType = "member_left"
	ActivityRegistrationToggled ActivityType = "registration_toggled"
	ActivityChapterCreated      ActivityType = "chapter_created"
)

type Activity struct {
	ActivityID string         `json:"activityId" firestore:"activityId"`
	Type       ActivityType   `json:"type" firestore:"type"`
	Message    string         `json:"message" firestore:"message"`
	Timestamp  time.Time      `json:"timestamp" firestore:"timestamp"`
	ChapterID  string         `json:"chapterId" firestore:"chapterId"`
	UserID     string         `json:"userId,omitempty" firestore:"userId,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty" firestore:"metadata,omitempty"`
}

func NewActivityID(at time.Time) string {
	return fmt.Sprintf("%d-%s", at.UnixMilli(), uuid.NewString()[:8])
}
