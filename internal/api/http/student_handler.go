package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"unify-backend/internal/service"
)

func (h *handler) registerStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in service.ApplyInput
	if err := decodeBody(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Registrations.Apply(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Registration submitted successfully",
		"registration": res,
	})
}

func (h *handler) listChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.svc.Students.ListChapters(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chapters": chapters})
}

func (h *handler) myChapters(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	chapters, err := h.svc.Students.MyChapters(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chapters": chapters})
}

func (h *handler) studentDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Students.Dashboard(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handler) myRegistrations(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	reqs, err := h.svc.Students.MyRegistrations(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"registrations": reqs})
}

func (h *handler) leaveChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Registrations.Leave(r.Context(), id, mux.Vars(r)["chapterId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Students.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) upsertProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in service.ProfileInput
	if err := decodeBody(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.svc.Students.UpsertProfile(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
