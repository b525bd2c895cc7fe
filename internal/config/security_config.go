package config

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No authentication
	SecurityAuthenticated                      // Any valid bearer token
	SecurityChapterHead                        // Token with a chapter head group
	SecurityAdmin                              // Token with an admin group
)

// EndpointSecurityConfig maps "METHOD /route-template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	"GET /health":  SecurityPublic,
	"GET /metrics": SecurityPublic,

	// Student - any authenticated caller
	"POST /register-student":                     SecurityAuthenticated,
	"GET /get-chapters":                          SecurityAuthenticated,
	"GET /student/my-chapters":                   SecurityAuthenticated,
	"GET /student/dashboard":                     SecurityAuthenticated,
	"GET /student/pending-registrations":         SecurityAuthenticated,
	"DELETE /student/chapters/{chapterId}/leave": SecurityAuthenticated,
	"GET /student/profile":                       SecurityAuthenticated,
	"PUT /student/profile":                       SecurityAuthenticated,

	// Chapter head
	"GET /chapterhead/my-chapters":                   SecurityChapterHead,
	"GET /chapterhead/dashboard":                     SecurityChapterHead,
	"GET /chapterhead/registrations":                 SecurityChapterHead,
	"GET /chapterhead/registrations/{chapterId}":     SecurityChapterHead,
	"PUT /chapterhead/toggle-registration":           SecurityChapterHead,
	"PUT /chapterhead/registration/{registrationId}": SecurityChapterHead,
	"DELETE /chapterhead/kick-student":               SecurityChapterHead,
	"GET /chapterhead/check-membership":              SecurityChapterHead,
	"GET /chapterhead/activities":                    SecurityChapterHead,

	// Admin
	"POST /admin/chapters":      SecurityAdmin,
	"GET /admin/chapters":       SecurityAdmin,
	"POST /admin/chapter-heads": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a method and route template
func GetSecurityLevel(method, route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
