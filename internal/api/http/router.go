package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"unify-backend/internal/domain"
	"unify-backend/internal/metrics"
	"unify-backend/internal/security"
	"unify-backend/internal/service"
)

// Services are the handlers' dependencies.
type Services struct {
	Registrations service.RegistrationService
	ChapterHeads  service.ChapterHeadService
	Students      service.StudentService
	Admin         service.AdminService
}

type handler struct {
	svc Services
}

// NewRouter builds the route table. CORS and panic recovery wrap the whole
// router so preflights and unmatched paths get them too.
func NewRouter(svc Services, decoder security.TokenDecoder, m *metrics.Metrics, allowedOrigins []string) http.Handler {
	h := &handler{svc: svc}
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found", Details: r.Method + " " + r.URL.Path})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Details: r.Method + " " + r.URL.Path})
	})
	router.Use(Observe(m), Authenticate(decoder))

	router.HandleFunc("/health", h.health).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	// Student
	router.HandleFunc("/register-student", h.registerStudent).Methods(http.MethodPost)
	router.HandleFunc("/get-chapters", h.listChapters).Methods(http.MethodGet)
	router.HandleFunc("/student/my-chapters", h.myChapters).Methods(http.MethodGet)
	router.HandleFunc("/student/dashboard", h.studentDashboard).Methods(http.MethodGet)
	router.HandleFunc("/student/pending-registrations", h.myRegistrations).Methods(http.MethodGet)
	router.HandleFunc("/student/chapters/{chapterId}/leave", h.leaveChapter).Methods(http.MethodDelete)
	router.HandleFunc("/student/profile", h.getProfile).Methods(http.MethodGet)
	router.HandleFunc("/student/profile", h.upsertProfile).Methods(http.MethodPut)

	// Chapter head
	router.HandleFunc("/chapterhead/my-chapters", h.headChapter).Methods(http.MethodGet)
	router.HandleFunc("/chapterhead/dashboard", h.headDashboard).Methods(http.MethodGet)
	router.HandleFunc("/chapterhead/registrations", h.chapterRegistrations).Methods(http.MethodGet)
	router.HandleFunc("/chapterhead/registrations/{chapterId}", h.chapterRegistrations).Methods(http.MethodGet)
	router.HandleFunc("/chapterhead/toggle-registration", h.toggleRegistration).Methods(http.MethodPut)
	router.HandleFunc("/chapterhead/registration/{registrationId}", h.decideRegistration).Methods(http.MethodPut)
	router.HandleFunc("/chapterhead/kick-student", h.kickStudent).Methods(http.MethodDelete)
	router.HandleFunc("/chapterhead/check-membership", h.checkMembership).Methods(http.MethodGet)
	router.HandleFunc("/chapterhead/activities", h.activities).Methods(http.MethodGet)

	// Admin
	router.HandleFunc("/admin/chapters", h.createChapter).Methods(http.MethodPost)
	router.HandleFunc("/admin/chapters", h.adminChapters).Methods(http.MethodGet)
	router.HandleFunc("/admin/chapter-heads", h.assignChapterHead).Methods(http.MethodPost)

	return CORS(allowedOrigins)(Recover(router))
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// caller is always set behind Authenticate; the fallback keeps a
// misconfigured route from running anonymously.
func caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, security.ErrMissingToken)
	}
	return id, ok
}
