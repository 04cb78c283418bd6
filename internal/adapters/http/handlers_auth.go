package web

import (
	"errors"
	"net/http"

	"ironhall/internal/adapters/http/middleware"
	"ironhall/internal/application/orchestrators"
)

func signupDeps() orchestrators.SignupDeps {
	return orchestrators.SignupDeps{
		AccountStore: stores.AccountStore,
		ClientStore:  stores.ClientStore,
		OutboxStore:  stores.OutboxStore,
		BaseURL:      siteBaseURL,
	}
}

// handleSignup shows the signup form and creates pending accounts.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "signup.html", nil)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SignupInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Email = r.FormValue("email")
		input.Password = r.FormValue("password")
		input.Name = r.FormValue("name")
		input.Phone = r.FormValue("phone")
		input.Goals = r.FormValue("goals")
	} else {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Name     string `json:"name"`
			Phone    string `json:"phone"`
			Goals    string `json:"goals"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input = orchestrators.SignupInput(req)
	}

	_, err := orchestrators.ExecuteSignup(r.Context(), input, signupDeps())
	if err != nil {
		if isFormRequest(r) {
			renderTemplate(w, r, "signup.html", map[string]any{"Error": err.Error(), "Email": input.Email, "Name": input.Name})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		renderTemplate(w, r, "signup.html", map[string]any{"Submitted": true, "Email": input.Email})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "pending_activation"})
}

// handleActivate redeems the emailed activation token.
func handleActivate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	err := orchestrators.ExecuteActivate(r.Context(), token, signupDeps())

	if isHTMLRequest(r) {
		renderTemplate(w, r, "activate.html", map[string]any{
			"Activated": err == nil,
		})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "activated"})
}

// handleResendActivation issues a fresh activation link. Always responds the
// same way regardless of whether the address has a pending account.
func handleResendActivation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	email := ""
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		email = r.FormValue("email")
	} else {
		var req struct {
			Email string `json:"email"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		email = req.Email
	}

	if err := orchestrators.ExecuteResendActivation(r.Context(), email, signupDeps()); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin shows the login form and creates sessions.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "login.html", nil)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.LoginInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Email = r.FormValue("email")
		input.Password = r.FormValue("password")
	} else {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput(req)
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			status = http.StatusTooManyRequests
		}
		if isFormRequest(r) {
			renderTemplate(w, r, "login.html", map[string]any{"Error": err.Error(), "Email": input.Email})
			return
		}
		http.Error(w, err.Error(), status)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if isFormRequest(r) {
		if result.PasswordChangeRequired {
			http.Redirect(w, r, "/settings/password", http.StatusSeeOther)
			return
		}
		if result.Staff {
			http.Redirect(w, r, "/staff/enrollments", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":                     result.Role,
		"password_change_required": result.PasswordChangeRequired,
	})
}

// handleLogout destroys the session and clears the cookie.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("ironhall_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
