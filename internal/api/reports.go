package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/daybook-app/daybook/internal/export"
)

func (h *APIHandler) GetStreakHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	streak, err := h.reportService.Streak(userID)
	if err != nil {
		log.Printf("Error getting streak for user %d: %v", userID, err)
		http.Error(w, "Failed to get streak", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(streak)
}

func (h *APIHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	from, err := parseDateParam(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	topTags := 0
	if raw := r.URL.Query().Get("top_tags"); raw != "" {
		topTags, err = strconv.Atoi(raw)
		if err != nil || topTags < 1 {
			http.Error(w, "top_tags must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	summary, err := h.reportService.Summary(userID, from, to, topTags)
	if err != nil {
		log.Printf("Error building summary for user %d: %v", userID, err)
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(summary)
}

func (h *APIHandler) MissedDaysHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	from, err := parseDateParam(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	missed, err := h.reportService.MissedDays(userID, from, to)
	if err != nil {
		log.Printf("Error listing missed days for user %d: %v", userID, err)
		http.Error(w, "Failed to list missed days", http.StatusInternalServerError)
		return
	}

	days := make([]string, 0, len(missed))
	for _, d := range missed {
		days = append(days, d.Format("2006-01-02"))
	}
	json.NewEncoder(w).Encode(map[string][]string{"missed_days": days})
}

func (h *APIHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	externalUserID := r.Context().Value("externalUserID").(string)

	from, err := parseDateParam(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, "format must be one of html, text, pdf", http.StatusBadRequest)
		return
	}

	entries, err := h.reportService.EntriesForExport(userID, from, to)
	if err != nil {
		log.Printf("Error loading entries for export, user %d: %v", userID, err)
		http.Error(w, "Failed to export entries", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("journal_%s_%s.%s",
		from.Format("2006-01-02"), to.Format("2006-01-02"), format.FileExtension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.Render(w, format, externalUserID, from, to, entries); err != nil {
		// Headers are already out; the best we can do is log.
		log.Printf("Error rendering %s export for user %d: %v", format, userID, err)
	}
}
