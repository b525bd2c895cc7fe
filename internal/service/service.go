package service

import (
	"context"
	"time"

	"unify-backend/internal/domain"
)

type RegistrationService interface {
	Apply(ctx context.Context, caller domain.Identity, in ApplyInput) (*ApplyResult, error)
	Decide(ctx context.Context, head domain.Identity, registrationID string, status domain.RegistrationStatus, notes *string) (*DecideResult, error)
	Kick(ctx context.Context, head domain.Identity, studentEmail, reason string) (*RemovalResult, error)
	Leave(ctx context.Context, caller domain.Identity, chapterID string) (*RemovalResult, error)
}

type ChapterHeadService interface {
	Resolve(ctx context.Context, caller domain.Identity) (*HeadContext, error)
	MyChapter(ctx context.Context, caller domain.Identity) (*domain.Chapter, error)
	Dashboard(ctx context.Context, caller domain.Identity) (*HeadDashboard, error)
	Registrations(ctx context.Context, caller domain.Identity, chapterID string, status domain.RegistrationStatus) ([]domain.RegistrationRequest, error)
	ToggleRegistration(ctx context.Context, caller domain.Identity, chapterID string, open *bool) (*domain.Chapter, error)
	CheckMembership(ctx context.Context, caller domain.Identity, q MembershipQuery) (*MembershipStatus, error)
	Activities(ctx context.Context, caller domain.Identity, limit int) ([]domain.Activity, error)
}

type StudentService interface {
	ListChapters(ctx context.Context) ([]domain.Chapter, error)
	MyChapters(ctx context.Context, caller domain.Identity) ([]domain.Chapter, error)
	Dashboard(ctx context.Context, caller domain.Identity) (*StudentDashboard, error)
	MyRegistrations(ctx context.Context, caller domain.Identity) ([]domain.RegistrationRequest, error)
	GetProfile(ctx context.Context, caller domain.Identity) (*domain.User, error)
	UpsertProfile(ctx context.Context, caller domain.Identity, in ProfileInput) (*domain.User, error)
}

type AdminService interface {
	CreateChapter(ctx context.Context, caller domain.Identity, in CreateChapterInput) (*domain.Chapter, error)
	ListChapters(ctx context.Context, caller domain.Identity) ([]domain.Chapter, error)
	AssignChapterHead(ctx context.Context, caller domain.Identity, in AssignHeadInput) (*domain.ChapterHead, error)
}

type ReconcileService interface {
	ReconcileMembership(ctx context.Context) (*ReconcileReport, error)
}

// Notifier delivers status emails to students. Delivery is best-effort:
// callers log failures and carry on.
type Notifier interface {
	SendRegistrationDecision(ctx context.Context, to, studentName, chapterName string, status domain.RegistrationStatus, notes string) error
	SendRemovalNotice(ctx context.Context, to, studentName, chapterName, reason string) error
}

type ApplyInput struct {
	StudentEmail string `json:"studentEmail" validate:"required,email"`
	ChapterName  string `json:"chapterName" validate:"required"`
}

type ApplyResult struct {
	RegistrationID string                    `json:"registrationId"`
	ChapterID      string                    `json:"chapterId"`
	ChapterName    string                    `json:"chapterName"`
	StudentEmail   string                    `json:"studentEmail"`
	Status         domain.RegistrationStatus `json:"status"`
}

type DecideResult struct {
	Message      string                      `json:"message"`
	Registration *domain.RegistrationRequest `json:"registration"`
}

// RemovalResult answers both Kick and Leave.
type RemovalResult struct {
	Message      string `json:"message"`
	StudentEmail string `json:"studentEmail"`
	ChapterID    string `json:"chapterId"`
	ChapterName  string `json:"chapterName"`
}

// HeadContext is a chapter head together with the chapter they resolve to.
type HeadContext struct {
	Head    *domain.ChapterHead
	Chapter *domain.Chapter
}

type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Kicked   int `json:"kicked"`
	Left     int `json:"left"`
	Total    int `json:"total"`
}

func countStatuses(reqs []domain.RegistrationRequest) StatusCounts {
	var c StatusCounts
	for _, r := range reqs {
		switch r.Status {
		case domain.RegistrationStatusPending:
			c.Pending++
		case domain.RegistrationStatusApproved:
			c.Approved++
		case domain.RegistrationStatusRejected:
			c.Rejected++
		case domain.RegistrationStatusKicked:
			c.Kicked++
		case domain.RegistrationStatusLeft:
			c.Left++
		}
		c.Total++
	}
	return c
}

type HeadDashboard struct {
	Chapter          *domain.Chapter   `json:"chapter"`
	Counts           StatusCounts      `json:"counts"`
	RecentActivities []domain.Activity `json:"recentActivities"`
}

type MembershipQuery struct {
	Email  string
	UserID string
}

type MembershipStatus struct {
	IsMember     bool                        `json:"isMember"`
	UserID       string                      `json:"userId"`
	ChapterID    string                      `json:"chapterId"`
	Registration *domain.RegistrationRequest `json:"registration,omitempty"`
}

type StudentDashboard struct {
	Counts       StatusCounts `json:"counts"`
	Memberships  int          `json:"memberships"`
	OpenChapters int          `json:"openChapters"`
}

type ProfileInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	SapID string `json:"sapId" validate:"max=50"`
	Year  string `json:"year" validate:"max=20"`
}

type CreateChapterInput struct {
	ChapterName      string `json:"chapterName" validate:"required,max=200"`
	Description      string `json:"description" validate:"max=2000"`
	HeadEmail        string `json:"headEmail" validate:"omitempty,email"`
	HeadName         string `json:"headName" validate:"max=200"`
	RegistrationOpen bool   `json:"registrationOpen"`
}

// AssignHeadInput names the chapter by id or by name.
type AssignHeadInput struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"max=200"`
	ChapterID   string `json:"chapterId" validate:"required_without=ChapterName"`
	ChapterName string `json:"chapterName" validate:"required_without=ChapterID"`
}

type ReconcileReport struct {
	ChaptersChecked int `json:"chaptersChecked"`
	ChaptersFixed   int `json:"chaptersFixed"`
	UsersChecked    int `json:"usersChecked"`
	UsersFixed      int `json:"usersFixed"`
}

// Option customizes a service at construction.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for deterministic ids in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
