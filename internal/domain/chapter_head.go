package domain

// ChapterHead links a person to the chapter they manage. Older records carry
// only ChapterName or the Chapters slice; ChapterID is filled in once resolved.
type ChapterHead struct {
	Email       string   `json:"email" firestore:"email"`
	Name        string   `json:"name,omitempty" firestore:"name,omitempty"`
	ChapterID   string   `json:"chapterId,omitempty" firestore:"chapterId,omitempty"`
	ChapterName string   `json:"chapterName,omitempty" firestore:"chapterName,omitempty"`
	Chapters    []string `json:"chapters,omitempty" firestore:"chapters,omitempty"`
}
