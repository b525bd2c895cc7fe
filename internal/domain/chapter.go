package domain

import "time"

type ChapterStatus string

const (
	ChapterStatusActive   ChapterStatus = "active"
	ChapterStatusInactive ChapterStatus = "inactive"
)

type Chapter struct {
	ChapterID        string        `json:"chapterId" firestore:"chapterId"`
	ChapterName      string        `json:"chapterName" firestore:"chapterName"`
	Description      string        `json:"description,omitempty" firestore:"description,omitempty"`
	HeadEmail        string        `json:"headEmail" firestore:"headEmail"`
	HeadName         string        `json:"headName" firestore:"headName"`
	MemberCount      int           `json:"memberCount" firestore:"memberCount"` // denormalized count of approved registrations
	Status           ChapterStatus `json:"status" firestore:"status"`
	RegistrationOpen bool          `json:"registrationOpen" firestore:"registrationOpen"`
	CreatedAt        time.Time     `json:"createdAt" firestore:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt" firestore:"updatedAt"`
}

func (c *Chapter) IsActive() bool {
	return c.Status == ChapterStatusActive
}
