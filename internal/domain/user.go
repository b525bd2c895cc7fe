package domain

import (
	"strings"
	"time"
)

type User struct {
	UserID             string    `json:"userId" firestore:"userId"`
	Name               string    `json:"name" firestore:"name"`
	Email              string    `json:"email" firestore:"email"`
	SapID              string    `json:"sapId" firestore:"sapId"`
	Year               string    `json:"year" firestore:"year"`
	RegisteredChapters []string  `json:"registeredChapters" firestore:"registeredChapters"` // chapter names, kept in step with approved registrations
	CreatedAt          time.Time `json:"createdAt" firestore:"createdAt"`
}

func (u *User) HasChapter(chapterName string) bool {
	for _, c := range u.RegisteredChapters {
		if c == chapterName {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
