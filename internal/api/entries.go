package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daybook-app/daybook/internal/core"
	"github.com/daybook-app/daybook/internal/store"
)

type CreateEntryRequest struct {
	EntryDate      string   `json:"entry_date"` // YYYY-MM-DD
	PrimaryMood    string   `json:"primary_mood"`
	SecondaryMood1 *string  `json:"secondary_mood1,omitempty"`
	SecondaryMood2 *string  `json:"secondary_mood2,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Content        string   `json:"content"`
}

type CreateEntryResponse struct {
	*store.JournalEntry
	Streak *store.StreakState `json:"streak"`
}

func (h *APIHandler) CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.PrimaryMood == "" {
		http.Error(w, "Primary mood is required", http.StatusBadRequest)
		return
	}
	entryDate, err := time.ParseInLocation("2006-01-02", req.EntryDate, time.UTC)
	if err != nil {
		http.Error(w, "entry_date must be a date in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}

	entry, streak, err := h.entryService.CreateEntry(userID, core.NewEntry{
		EntryDate:      entryDate,
		PrimaryMood:    req.PrimaryMood,
		SecondaryMood1: req.SecondaryMood1,
		SecondaryMood2: req.SecondaryMood2,
		Tags:           req.Tags,
		Content:        req.Content,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEntry) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		log.Printf("Error creating entry for user %d: %v", userID, err)
		http.Error(w, "Failed to create entry", http.StatusInternalServerError)
		return
	}

	resp := CreateEntryResponse{
		JournalEntry: entry,
		Streak:       streak,
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.entryService.ListEntries(userID, from, to)
	if err != nil {
		log.Printf("Error listing entries for user %d: %v", userID, err)
		http.Error(w, "Failed to list entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.JournalEntry{}
	}
	json.NewEncoder(w).Encode(entries)
}

func (h *APIHandler) GetEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	entryID := chi.URLParam(r, "entryID")

	entry, err := h.entryService.GetEntry(entryID, userID)
	if err != nil {
		log.Printf("Error getting entry %s for user %d: %v", entryID, userID, err)
		http.Error(w, "Failed to get entry", http.StatusInternalServerError)
		return
	}
	if entry == nil {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(entry)
}

type UpdateEntryRequest struct {
	PrimaryMood    string   `json:"primary_mood"`
	SecondaryMood1 *string  `json:"secondary_mood1,omitempty"`
	SecondaryMood2 *string  `json:"secondary_mood2,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Content        string   `json:"content"`
}

func (h *APIHandler) UpdateEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	entryID := chi.URLParam(r, "entryID")

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.PrimaryMood == "" {
		http.Error(w, "Primary mood is required", http.StatusBadRequest)
		return
	}

	entry, err := h.entryService.UpdateEntry(entryID, userID, core.EntryUpdate{
		PrimaryMood:    req.PrimaryMood,
		SecondaryMood1: req.SecondaryMood1,
		SecondaryMood2: req.SecondaryMood2,
		Tags:           req.Tags,
		Content:        req.Content,
	})
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			http.Error(w, "Entry not found", http.StatusNotFound)
			return
		}
		log.Printf("Error updating entry %s for user %d: %v", entryID, userID, err)
		http.Error(w, "Failed to update entry", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entry)
}

func (h *APIHandler) DeleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	entryID := chi.URLParam(r, "entryID")

	streak, err := h.entryService.DeleteEntry(entryID, userID)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			http.Error(w, "Entry not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting entry %s for user %d: %v", entryID, userID, err)
		http.Error(w, "Failed to delete entry", http.StatusInternalServerError)
		return
	}

	// Return the recomputed streak so the UI can refresh without a second call.
	json.NewEncoder(w).Encode(streak)
}
