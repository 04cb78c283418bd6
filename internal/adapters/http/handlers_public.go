package web

import (
	"net/http"
	"strconv"
	"strings"

	"ironhall/internal/application/orchestrators"
	"ironhall/internal/domain/assessment"
)

// handleHome renders the landing page: hero, active programs, published testimonials.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()

	programs, err := stores.ProgramStore.ListActive(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	testimonials, err := stores.TestimonialStore.ListPublished(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "home.html", map[string]any{
		"Programs":     programs,
		"Testimonials": testimonials,
	})
}

// handlePrograms lists active programs as HTML or JSON.
func handlePrograms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	programs, err := stores.ProgramStore.ListActive(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "programs.html", map[string]any{"Programs": programs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"programs": programs})
}

// handleProgramDetail renders a single program by slug (/programs/{slug}).
func handleProgramDetail(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/programs/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}

	prog, err := stores.ProgramStore.GetBySlug(r.Context(), slug)
	if err != nil || !prog.Active {
		http.NotFound(w, r)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "program_detail.html", map[string]any{"Program": prog})
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

// handleTestimonials lists published testimonials.
func handleTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := stores.TestimonialStore.ListPublished(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "testimonials.html", map[string]any{"Testimonials": testimonials})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"testimonials": testimonials})
}

// handleContact shows the contact form and accepts submissions.
func handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "contact.html", nil)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SubmitContactInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Name = r.FormValue("name")
		input.Email = r.FormValue("email")
		input.Subject = r.FormValue("subject")
		input.Body = r.FormValue("body")
	} else {
		var req struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Subject string `json:"subject"`
			Body    string `json:"body"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input = orchestrators.SubmitContactInput(req)
	}

	_, err := orchestrators.ExecuteSubmitContact(r.Context(), input, orchestrators.SubmitContactDeps{
		ContactStore: stores.ContactStore,
		OutboxStore:  stores.OutboxStore,
		ContactInbox: contactInboxAddress,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		renderTemplate(w, r, "contact.html", map[string]any{"Sent": true})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "received"})
}

// handleAssess scores a strength assessment. Anonymous use is allowed; logged-in
// clients get the result appended to their history.
func handleAssess(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "assess.html", nil)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input assessment.Input
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Sex = r.FormValue("sex")
		input.BodyweightKg = parseKg(r.FormValue("bodyweight_kg"))
		input.SquatKg = parseKg(r.FormValue("squat_kg"))
		input.BenchKg = parseKg(r.FormValue("bench_kg"))
		input.DeadliftKg = parseKg(r.FormValue("deadlift_kg"))
		input.PressKg = parseKg(r.FormValue("press_kg"))
	} else {
		var req struct {
			Sex          string  `json:"sex"`
			BodyweightKg float64 `json:"bodyweight_kg"`
			SquatKg      float64 `json:"squat_kg"`
			BenchKg      float64 `json:"bench_kg"`
			DeadliftKg   float64 `json:"deadlift_kg"`
			PressKg      float64 `json:"press_kg"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input = assessment.Input(req)
	}

	result, err := orchestrators.ExecuteRecordAssessment(r.Context(), orchestrators.RecordAssessmentInput{
		ClientID: currentClientID(r),
		Input:    input,
	}, orchestrators.RecordAssessmentDeps{
		AssessmentStore: stores.AssessmentStore,
		Now:             timeNow,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		renderTemplate(w, r, "assess.html", map[string]any{"Result": result, "Input": input})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseKg(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
