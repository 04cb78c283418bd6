package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"ironhall/internal/adapters/http/middleware"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func isFormRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	if ok {
		role = sess.Role
		email = sess.Email
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentEmail": func() string { return email },
		"isLoggedIn":   func() bool { return role != "" },
		"isStaff":      func() bool { return middleware.IsStaff(r.Context()) },
		"isAdmin":      func() bool { return middleware.IsAdmin(r.Context()) },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"dollars": func(cents int) string {
			if cents%100 == 0 {
				return fmt.Sprintf("$%d", cents/100)
			}
			return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// currentClientID resolves the logged-in session to a client profile ID.
// Returns "" for anonymous requests and staff accounts without a profile.
func currentClientID(r *http.Request) string {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return ""
	}
	profile, err := stores.ClientStore.GetByAccountID(r.Context(), sess.AccountID)
	if err != nil {
		return ""
	}
	return profile.ID
}

// registerRoutes attaches all application routes to the mux.
func registerRoutes(mux *http.ServeMux) {
	// Public site
	mux.HandleFunc("/", handleHome)
	mux.HandleFunc("/programs", handlePrograms)
	mux.HandleFunc("/programs/", handleProgramDetail)
	mux.HandleFunc("/testimonials", handleTestimonials)
	mux.HandleFunc("/contact", handleContact)
	mux.HandleFunc("/assess", handleAssess)

	// Auth
	mux.HandleFunc("/signup", handleSignup)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/activate", handleActivate)
	mux.HandleFunc("/activate/resend", handleResendActivation)

	// Discount tokens
	mux.HandleFunc("/api/discounts/request", handleRequestDiscount)
	mux.HandleFunc("/api/discounts/redeem", handleRedeemDiscount)

	// Member portal (session required)
	mux.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/settings", middleware.RequireAuth(http.HandlerFunc(handleSettings)))
	mux.Handle("/settings/password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))
	mux.Handle("/enroll", middleware.RequireAuth(http.HandlerFunc(handleEnroll)))
	mux.Handle("/enrollments/cancel", middleware.RequireAuth(http.HandlerFunc(handleCancelEnrollment)))
	mux.Handle("/assessments", middleware.RequireAuth(http.HandlerFunc(handleAssessmentHistory)))
	mux.Handle("/notifications/read", middleware.RequireAuth(http.HandlerFunc(handleMarkNotificationRead)))

	// Staff review queue
	staffOnly := middleware.RequireRole("admin", "trainer")
	mux.Handle("/staff/enrollments", staffOnly(http.HandlerFunc(handleEnrollmentQueue)))
	mux.Handle("/staff/enrollments/decide", staffOnly(http.HandlerFunc(handleDecideEnrollment)))
	mux.Handle("/staff/enrollments/start", staffOnly(http.HandlerFunc(handleStartEnrollment)))
	mux.Handle("/staff/contact", staffOnly(http.HandlerFunc(handleContactInbox)))
	mux.Handle("/staff/contact/status", staffOnly(http.HandlerFunc(handleContactStatus)))

	// Admin
	adminOnly := middleware.RequireRole("admin")
	mux.Handle("/admin/enrollments/sweep", adminOnly(http.HandlerFunc(handleEnrollmentSweep)))
	mux.Handle("/admin/programs", adminOnly(http.HandlerFunc(handleAdminPrograms)))
	mux.Handle("/admin/programs/delete", adminOnly(http.HandlerFunc(handleAdminProgramDelete)))
	mux.Handle("/admin/testimonials", adminOnly(http.HandlerFunc(handleAdminTestimonials)))
	mux.Handle("/admin/testimonials/delete", adminOnly(http.HandlerFunc(handleAdminTestimonialDelete)))
	mux.Handle("/admin/discounts", adminOnly(http.HandlerFunc(handleDiscountList)))
	mux.Handle("/admin/outbox", adminOnly(http.HandlerFunc(handleOutboxList)))
	mux.Handle("/admin/outbox/retry", adminOnly(http.HandlerFunc(handleOutboxRetry)))
	mux.Handle("/admin/outbox/abandon", adminOnly(http.HandlerFunc(handleOutboxAbandon)))
	mux.Handle("/admin/perf", adminOnly(http.HandlerFunc(handlePerfSnapshot)))
}
