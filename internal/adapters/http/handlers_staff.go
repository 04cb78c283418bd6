package web

import (
	"net/http"

	"ironhall/internal/adapters/http/middleware"
	"ironhall/internal/application/orchestrators"
	enrollmentDomain "ironhall/internal/domain/enrollment"
)

func reviewDeps() orchestrators.ReviewEnrollmentDeps {
	return orchestrators.ReviewEnrollmentDeps{
		EnrollmentStore:   stores.EnrollmentStore,
		ClientStore:       stores.ClientStore,
		ProgramStore:      stores.ProgramStore,
		NotificationStore: stores.NotificationStore,
		OutboxStore:       stores.OutboxStore,
		Now:               timeNow,
	}
}

// handleEnrollmentQueue lists applications for review, oldest first.
// A status query parameter switches between queues; default is pending.
func handleEnrollmentQueue(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = enrollmentDomain.StatusPending
	}

	enrollments, err := stores.EnrollmentStore.ListByStatus(r.Context(), status)
	if err != nil {
		internalError(w, err)
		return
	}

	// Decorate with client and program names for the queue view.
	type queueRow struct {
		Enrollment  enrollmentDomain.Enrollment
		ClientName  string
		ClientEmail string
		ProgramName string
	}
	rows := make([]queueRow, 0, len(enrollments))
	for _, enr := range enrollments {
		row := queueRow{Enrollment: enr, ClientName: enr.ClientID, ProgramName: enr.ProgramID}
		if cl, err := stores.ClientStore.GetByID(r.Context(), enr.ClientID); err == nil {
			row.ClientName = cl.Name
			row.ClientEmail = cl.Email
		}
		if prog, err := stores.ProgramStore.GetByID(r.Context(), enr.ProgramID); err == nil {
			row.ProgramName = prog.Name
		}
		rows = append(rows, row)
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "staff_enrollments.html", map[string]any{
			"Rows":   rows,
			"Status": status,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enrollments": rows, "status": status})
}

// handleDecideEnrollment records an approve or decline decision.
func handleDecideEnrollment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.ReviewEnrollmentInput{ReviewerID: sess.AccountID}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.EnrollmentID = r.FormValue("enrollment_id")
		input.Approve = r.FormValue("decision") == "approve"
		input.Note = r.FormValue("note")
	} else {
		var req struct {
			EnrollmentID string `json:"enrollment_id"`
			Decision     string `json:"decision"`
			Note         string `json:"note"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.EnrollmentID = req.EnrollmentID
		input.Approve = req.Decision == "approve"
		input.Note = req.Note
	}

	if err := orchestrators.ExecuteReviewEnrollment(r.Context(), input, reviewDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/staff/enrollments", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "decided"})
}

// handleStartEnrollment activates an approved enrollment.
func handleStartEnrollment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	enrollmentID := r.FormValue("enrollment_id")
	if enrollmentID == "" {
		var req struct {
			EnrollmentID string `json:"enrollment_id"`
		}
		if err := strictDecode(r, &req); err == nil {
			enrollmentID = req.EnrollmentID
		}
	}

	if err := orchestrators.ExecuteStartEnrollment(r.Context(), orchestrators.StartEnrollmentInput{
		EnrollmentID: enrollmentID,
	}, reviewDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/staff/enrollments?status=approved", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// handleContactInbox lists contact messages, filterable by status.
func handleContactInbox(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	messages, err := stores.ContactStore.List(r.Context(), status)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "staff_contact.html", map[string]any{
			"Messages": messages,
			"Status":   status,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// handleContactStatus marks a contact message replied or archived.
func handleContactStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	messageID := r.FormValue("message_id")
	action := r.FormValue("action")

	msg, err := stores.ContactStore.GetByID(r.Context(), messageID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "replied":
		msg.MarkReplied(timeNow())
	case "archived":
		msg.MarkArchived()
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	if err := stores.ContactStore.Save(r.Context(), msg); err != nil {
		internalError(w, err)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/staff/contact", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": msg.Status})
}
