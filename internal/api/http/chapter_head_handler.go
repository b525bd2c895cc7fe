package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"unify-backend/internal/domain"
	"unify-backend/internal/service"
)

type toggleRequest struct {
	ChapterID        string `json:"chapterId"`
	RegistrationOpen *bool  `json:"registrationOpen"`
}

type decideRequest struct {
	Status string  `json:"status" validate:"required,oneof=approved rejected"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

type kickRequest struct {
	StudentEmail string `json:"studentEmail" validate:"required,email"`
	Reason       string `json:"reason" validate:"max=2000"`
}

func (h *handler) headChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	c, err := h.svc.ChapterHeads.MyChapter(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chapters": []*domain.Chapter{c}})
}

func (h *handler) headDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	d, err := h.svc.ChapterHeads.Dashboard(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// chapterRegistrations serves both the scoped and unscoped routes.
func (h *handler) chapterRegistrations(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	status := domain.RegistrationStatus(r.URL.Query().Get("status"))
	reqs, err := h.svc.ChapterHeads.Registrations(r.Context(), id, mux.Vars(r)["chapterId"], status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"registrations": reqs})
}

func (h *handler) toggleRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in toggleRequest
	if err := decodeBody(r, &in, true); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.ChapterHeads.ToggleRegistration(r.Context(), id, in.ChapterID, in.RegistrationOpen)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Registration status updated",
		"chapterId":        c.ChapterID,
		"registrationOpen": c.RegistrationOpen,
	})
}

func (h *handler) decideRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in decideRequest
	if err := decodeBody(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Registrations.Decide(r.Context(), id, mux.Vars(r)["registrationId"], domain.RegistrationStatus(in.Status), in.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) kickStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in kickRequest
	if err := decodeBody(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Registrations.Kick(r.Context(), id, in.StudentEmail, in.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) checkMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	q := service.MembershipQuery{
		Email:  r.URL.Query().Get("email"),
		UserID: r.URL.Query().Get("userId"),
	}
	res, err := h.svc.ChapterHeads.CheckMembership(r.Context(), id, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) activities(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	activities, err := h.svc.ChapterHeads.Activities(r.Context(), id, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": activities})
}
