package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"ironhall/internal/application/orchestrators"
	programDomain "ironhall/internal/domain/program"
	testimonialDomain "ironhall/internal/domain/testimonial"
)

// handleAdminPrograms lists the full program catalogue and accepts
// create/update submissions. An empty id creates; a known id overwrites.
func handleAdminPrograms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == http.MethodGet {
		programs, err := stores.ProgramStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		if isHTMLRequest(r) {
			renderTemplate(w, r, "admin_programs.html", map[string]any{"Programs": programs})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"programs": programs})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var prog programDomain.Program
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		prog.ID = r.FormValue("id")
		prog.Slug = r.FormValue("slug")
		prog.Name = r.FormValue("name")
		prog.Level = r.FormValue("level")
		prog.DurationWeeks, _ = strconv.Atoi(r.FormValue("duration_weeks"))
		prog.PriceCents, _ = strconv.Atoi(r.FormValue("price_cents"))
		prog.Description = r.FormValue("description")
		prog.Active = r.FormValue("active") == "on"
		prog.DisplayOrder, _ = strconv.Atoi(r.FormValue("display_order"))
	} else {
		var req struct {
			ID            string `json:"id"`
			Slug          string `json:"slug"`
			Name          string `json:"name"`
			Level         string `json:"level"`
			DurationWeeks int    `json:"duration_weeks"`
			PriceCents    int    `json:"price_cents"`
			Description   string `json:"description"`
			Active        bool   `json:"active"`
			DisplayOrder  int    `json:"display_order"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		prog = programDomain.Program(req)
	}

	created := prog.ID == ""
	if created {
		prog.ID = generateID()
	}
	if err := prog.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.ProgramStore.Save(ctx, prog); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("catalog_event", "action", "program_saved", "program_id", prog.ID, "slug", prog.Slug, "created", created)

	if isFormRequest(r) {
		http.Redirect(w, r, "/admin/programs", http.StatusSeeOther)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"program_id": prog.ID})
}

// handleAdminProgramDelete removes a program from the catalogue. Existing
// enrollments keep their program ID; only the listing disappears.
func handleAdminProgramDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := formOrJSONID(r, "program_id")
	if id == "" {
		http.Error(w, "program_id is required", http.StatusBadRequest)
		return
	}
	if err := stores.ProgramStore.Delete(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("catalog_event", "action", "program_deleted", "program_id", id)

	if isFormRequest(r) {
		http.Redirect(w, r, "/admin/programs", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAdminTestimonials lists all testimonials (published or not) and
// accepts create/update submissions.
func handleAdminTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == http.MethodGet {
		testimonials, err := stores.TestimonialStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		if isHTMLRequest(r) {
			renderTemplate(w, r, "admin_testimonials.html", map[string]any{"Testimonials": testimonials})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"testimonials": testimonials})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var tm testimonialDomain.Testimonial
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		tm.ID = r.FormValue("id")
		tm.Author = r.FormValue("author")
		tm.Quote = r.FormValue("quote")
		tm.Rating, _ = strconv.Atoi(r.FormValue("rating"))
		tm.Published = r.FormValue("published") == "on"
		tm.DisplayOrder, _ = strconv.Atoi(r.FormValue("display_order"))
	} else {
		var req struct {
			ID           string `json:"id"`
			Author       string `json:"author"`
			Quote        string `json:"quote"`
			Rating       int    `json:"rating"`
			Published    bool   `json:"published"`
			DisplayOrder int    `json:"display_order"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		tm.ID = req.ID
		tm.Author = req.Author
		tm.Quote = req.Quote
		tm.Rating = req.Rating
		tm.Published = req.Published
		tm.DisplayOrder = req.DisplayOrder
	}

	created := tm.ID == ""
	if created {
		tm.ID = generateID()
		tm.CreatedAt = timeNow()
	} else if existing, err := stores.TestimonialStore.GetByID(ctx, tm.ID); err == nil {
		tm.CreatedAt = existing.CreatedAt
	}
	if err := tm.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.TestimonialStore.Save(ctx, tm); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("catalog_event", "action", "testimonial_saved", "testimonial_id", tm.ID, "published", tm.Published, "created", created)

	if isFormRequest(r) {
		http.Redirect(w, r, "/admin/testimonials", http.StatusSeeOther)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"testimonial_id": tm.ID})
}

// handleAdminTestimonialDelete removes a testimonial.
func handleAdminTestimonialDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := formOrJSONID(r, "testimonial_id")
	if id == "" {
		http.Error(w, "testimonial_id is required", http.StatusBadRequest)
		return
	}
	if err := stores.TestimonialStore.Delete(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("catalog_event", "action", "testimonial_deleted", "testimonial_id", id)

	if isFormRequest(r) {
		http.Redirect(w, r, "/admin/testimonials", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleEnrollmentSweep runs the maintenance sweep on demand instead of
// waiting for the hourly worker.
func handleEnrollmentSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := orchestrators.ExecuteEnrollmentSweep(r.Context(), orchestrators.SweepDeps{
		EnrollmentStore: stores.EnrollmentStore,
		Now:             timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/staff/enrollments", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"expired":   result.Expired,
		"completed": result.Completed,
	})
}

// formOrJSONID reads an identifier from a form field or a JSON body of the
// same shape.
func formOrJSONID(r *http.Request, field string) string {
	if id := r.FormValue(field); id != "" {
		return id
	}
	var body map[string]string
	if err := strictDecode(r, &body); err != nil {
		return ""
	}
	return body[field]
}
