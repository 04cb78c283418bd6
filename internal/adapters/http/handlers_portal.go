package web

import (
	"net/http"

	"ironhall/internal/adapters/http/middleware"
	"ironhall/internal/application/orchestrators"
)

// handleDashboard renders the member dashboard: profile, enrollments,
// unread notifications and latest assessment.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	profile, err := stores.ClientStore.GetByAccountID(ctx, sess.AccountID)
	if err != nil {
		// Staff accounts have no client profile; send them to their queue.
		if middleware.IsStaff(ctx) {
			http.Redirect(w, r, "/staff/enrollments", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	enrollments, err := stores.EnrollmentStore.ListByClient(ctx, profile.ID)
	if err != nil {
		internalError(w, err)
		return
	}
	notifications, err := stores.NotificationStore.ListByClient(ctx, profile.ID, true)
	if err != nil {
		internalError(w, err)
		return
	}
	assessments, err := stores.AssessmentStore.ListByClient(ctx, profile.ID)
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"Client":        profile,
		"Enrollments":   enrollments,
		"Notifications": notifications,
	}
	if len(assessments) > 0 {
		data["LatestAssessment"] = assessments[0]
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", data)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleSettings shows and updates the client's own profile.
func handleSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method == http.MethodGet {
		profile, err := stores.ClientStore.GetByAccountID(ctx, sess.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "settings.html", map[string]any{"Client": profile})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.UpdateSettingsInput{AccountID: sess.AccountID}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Name = r.FormValue("name")
		input.Phone = r.FormValue("phone")
		input.DateOfBirth = r.FormValue("date_of_birth")
		input.Goals = r.FormValue("goals")
		input.EmergencyContact = r.FormValue("emergency_contact")
		input.EmailOnDecision = r.FormValue("email_on_decision") == "on"
		input.PromoOptIn = r.FormValue("promo_opt_in") == "on"
	} else {
		var req struct {
			Name             string `json:"name"`
			Phone            string `json:"phone"`
			DateOfBirth      string `json:"date_of_birth"`
			Goals            string `json:"goals"`
			EmergencyContact string `json:"emergency_contact"`
			EmailOnDecision  bool   `json:"email_on_decision"`
			PromoOptIn       bool   `json:"promo_opt_in"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.Name = req.Name
		input.Phone = req.Phone
		input.DateOfBirth = req.DateOfBirth
		input.Goals = req.Goals
		input.EmergencyContact = req.EmergencyContact
		input.EmailOnDecision = req.EmailOnDecision
		input.PromoOptIn = req.PromoOptIn
	}

	if err := orchestrators.ExecuteUpdateSettings(ctx, input, orchestrators.UpdateSettingsDeps{
		ClientStore: stores.ClientStore,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// handleChangePassword updates the account password and drops other sessions.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method == http.MethodGet {
		renderTemplate(w, r, "change_password.html", nil)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.ChangePasswordInput{AccountID: sess.AccountID}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.CurrentPassword = r.FormValue("current_password")
		input.NewPassword = r.FormValue("new_password")
	} else {
		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.CurrentPassword = req.CurrentPassword
		input.NewPassword = req.NewPassword
	}

	if err := orchestrators.ExecuteChangePassword(ctx, input, orchestrators.ChangePasswordDeps{
		AccountStore: stores.AccountStore,
	}); err != nil {
		if isFormRequest(r) {
			renderTemplate(w, r, "change_password.html", map[string]any{"Error": err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Other devices must log in again with the new password.
	sessions.DeleteForAccount(sess.AccountID)
	middleware.ClearSessionCookie(w)

	if isFormRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// handleEnroll shows the application form and submits applications.
func handleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := currentClientID(r)
	if clientID == "" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if r.Method == http.MethodGet {
		programs, err := stores.ProgramStore.ListActive(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "enroll.html", map[string]any{"Programs": programs})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.ApplyEnrollmentInput{ClientID: clientID}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.ProgramID = r.FormValue("program_id")
		input.Goals = r.FormValue("goals")
		input.PreferredSchedule = r.FormValue("preferred_schedule")
		input.DiscountCode = r.FormValue("discount_code")
	} else {
		var req struct {
			ProgramID         string `json:"program_id"`
			Goals             string `json:"goals"`
			PreferredSchedule string `json:"preferred_schedule"`
			DiscountCode      string `json:"discount_code"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.ProgramID = req.ProgramID
		input.Goals = req.Goals
		input.PreferredSchedule = req.PreferredSchedule
		input.DiscountCode = req.DiscountCode
	}

	id, err := orchestrators.ExecuteApplyEnrollment(ctx, input, orchestrators.ApplyEnrollmentDeps{
		EnrollmentStore: stores.EnrollmentStore,
		ClientStore:     stores.ClientStore,
		ProgramStore:    stores.ProgramStore,
		DiscountStore:   stores.DiscountStore,
		Now:             timeNow,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"enrollment_id": id})
}

// handleCancelEnrollment lets a client withdraw their own enrollment.
func handleCancelEnrollment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	clientID := currentClientID(r)
	if clientID == "" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	enrollmentID := ""
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		enrollmentID = r.FormValue("enrollment_id")
	} else {
		var req struct {
			EnrollmentID string `json:"enrollment_id"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		enrollmentID = req.EnrollmentID
	}

	if err := orchestrators.ExecuteCancelEnrollment(r.Context(), orchestrators.CancelEnrollmentInput{
		EnrollmentID: enrollmentID,
		ClientID:     clientID,
	}, orchestrators.CancelEnrollmentDeps{
		EnrollmentStore: stores.EnrollmentStore,
		Now:             timeNow,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// handleAssessmentHistory lists the client's stored assessments, newest first.
func handleAssessmentHistory(w http.ResponseWriter, r *http.Request) {
	clientID := currentClientID(r)
	if clientID == "" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	records, err := stores.AssessmentStore.ListByClient(r.Context(), clientID)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "assessments.html", map[string]any{"Records": records})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assessments": records})
}

// handleMarkNotificationRead marks one of the client's notifications as read.
func handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	clientID := currentClientID(r)
	if clientID == "" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	notificationID := r.FormValue("notification_id")
	if notificationID == "" {
		var req struct {
			NotificationID string `json:"notification_id"`
		}
		if err := strictDecode(r, &req); err == nil {
			notificationID = req.NotificationID
		}
	}

	notif, err := stores.NotificationStore.GetByID(r.Context(), notificationID)
	if err != nil || notif.ClientID != clientID {
		http.NotFound(w, r)
		return
	}
	notif.MarkRead(timeNow())
	if err := stores.NotificationStore.Save(r.Context(), notif); err != nil {
		internalError(w, err)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
