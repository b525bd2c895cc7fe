package http

import (
	"net/http"

	"unify-backend/internal/service"
)

func (h *handler) createChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in service.CreateChapterInput
	if err := decodeBody(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Admin.CreateChapter(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handler) adminChapters(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	chapters, err := h.svc.Admin.ListChapters(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chapters": chapters})
}

func (h *handler) assignChapterHead(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in service.AssignHeadInput
	if err := decodeBody(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	head, err := h.svc.Admin.AssignChapterHead(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, head)
}
