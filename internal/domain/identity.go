package domain

import "strings"

type Role string

const (
	RoleStudent     Role = "student"
	RoleChapterHead Role = "chapterhead"
	RoleAdmin       Role = "admin"
)

// Identity is what a bearer token tells us about the caller.
type Identity struct {
	Email  string
	Groups []string
}

// HasRole matches groups loosely: "ChapterHeads", "chapter_head" and
// "chapter-head" all count as RoleChapterHead.
func (i Identity) HasRole(role Role) bool {
	for _, g := range i.Groups {
		if normalizeGroup(g) == string(role) {
			return true
		}
	}
	return false
}

func normalizeGroup(g string) string {
	g = strings.ToLower(strings.TrimSpace(g))
	g = strings.NewReplacer("_", "", "-", "", " ", "").Replace(g)
	return strings.TrimSuffix(g, "s")
}
