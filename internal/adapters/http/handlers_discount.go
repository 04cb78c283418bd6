package web

import (
	"errors"
	"net/http"

	"ironhall/internal/application/orchestrators"
)

// handleRequestDiscount issues a discount token for an email address.
// The raw code travels by email; the API response includes it only outside
// production so local development doesn't need a mail provider.
func handleRequestDiscount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		req.Email = r.FormValue("email")
		req.Name = r.FormValue("name")
	} else {
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteIssueDiscount(r.Context(), orchestrators.IssueDiscountInput{
		Email: req.Email,
		Name:  req.Name,
	}, orchestrators.IssueDiscountDeps{
		DiscountStore:     stores.DiscountStore,
		OutboxStore:       stores.OutboxStore,
		ClientStore:       stores.ClientStore,
		NotificationStore: stores.NotificationStore,
		Now:               timeNow,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotEligible) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		internalError(w, err)
		return
	}

	resp := map[string]any{
		"status":     "issued",
		"percent":    result.Percent,
		"expires_at": result.ExpiresAt,
	}
	if !isProduction {
		resp["code"] = result.Code
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleRedeemDiscount validates and spends a discount code. A "verify" flag
// checks eligibility without spending. Refusals are deliberately uniform.
func handleRedeemDiscount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Code       string `json:"code"`
		Email      string `json:"email"`
		VerifyOnly bool   `json:"verify_only"`
	}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		req.Code = r.FormValue("code")
		req.Email = r.FormValue("email")
		req.VerifyOnly = r.FormValue("verify_only") == "true"
	} else {
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteRedeemDiscount(r.Context(), orchestrators.RedeemDiscountInput{
		Code:       req.Code,
		Email:      req.Email,
		VerifyOnly: req.VerifyOnly,
	}, orchestrators.RedeemDiscountDeps{
		DiscountStore: stores.DiscountStore,
		Now:           timeNow,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrCodeInvalid) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		internalError(w, err)
		return
	}

	status := "redeemed"
	if req.VerifyOnly {
		status = "valid"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"percent": result.Percent,
	})
}
