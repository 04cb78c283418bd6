package web

import (
	"net/http"
	"strconv"
	"time"
)

// handleDiscountList shows recently issued discount tokens. Only digests are
// stored, so the view reports issuance state, never codes.
func handleDiscountList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	tokens, err := stores.DiscountStore.List(r.Context(), limit)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_discounts.html", map[string]any{"Tokens": tokens})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

// handleOutboxList shows pending and failed outbox entries.
func handleOutboxList(w http.ResponseWriter, r *http.Request) {
	pending, err := stores.OutboxStore.ListPending(r.Context(), 50)
	if err != nil {
		internalError(w, err)
		return
	}
	failed, err := stores.OutboxStore.ListFailed(r.Context(), 50)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_outbox.html", map[string]any{
			"Pending": pending,
			"Failed":  failed,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pending": pending, "failed": failed})
}

// handleOutboxRetry forces an immediate attempt on one entry.
func handleOutboxRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if outboxProcessor == nil {
		http.Error(w, "outbox processor not configured", http.StatusServiceUnavailable)
		return
	}

	entryID := formOrJSONID(r, "entry_id")
	if err := outboxProcessor.ProcessSingle(r.Context(), entryID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/admin/outbox", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

// handleOutboxAbandon marks an entry abandoned so it stops retrying.
func handleOutboxAbandon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if outboxProcessor == nil {
		http.Error(w, "outbox processor not configured", http.StatusServiceUnavailable)
		return
	}

	entryID := formOrJSONID(r, "entry_id")
	if err := outboxProcessor.AbandonEntry(r.Context(), entryID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isFormRequest(r) {
		http.Redirect(w, r, "/admin/outbox", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

// handlePerfSnapshot reports request/query latency percentiles for the last hour.
func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "perf collector not configured", http.StatusServiceUnavailable)
		return
	}

	window := time.Hour
	if v := r.URL.Query().Get("minutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 24*60 {
			window = time.Duration(n) * time.Minute
		}
	}

	snapshot := perfCollector.Snapshot(timeNow().Add(-window), 10)
	writeJSON(w, http.StatusOK, snapshot)
}
