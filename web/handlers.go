package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"markestedt/clipslots/slots"
)

// SlotView is a slot as shown by the dashboard
type SlotView struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Content  string `json:"content"`
	Occupied bool   `json:"occupied"`
}

func slotViews(snapshot []slots.Slot) []SlotView {
	views := make([]SlotView, len(snapshot))
	for i, s := range snapshot {
		views[i] = SlotView{
			Index:    s.Index,
			Label:    slots.Label(s.Index),
			Content:  s.Content,
			Occupied: !s.Empty(),
		}
	}
	return views
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// lastPathInt parses the last path segment, e.g. 3 from /api/slots/3
func lastPathInt(path string) (int64, bool) {
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(parts) < 4 {
		return 0, false
	}
	n, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// handleConfig returns the current configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.config
	writeJSON(w, struct {
		SlotFile         string `json:"slotFile"`
		ClipboardDelayMs int    `json:"clipboardDelayMs"`
		LogLevel         string `json:"logLevel"`
		WebPort          int    `json:"webPort"`
		TrayEnabled      bool   `json:"trayEnabled"`
		HistoryEnabled   bool   `json:"historyEnabled"`
		MetricsInterval  int    `json:"metricsIntervalMs"`
	}{
		SlotFile:         cfg.SlotFile(),
		ClipboardDelayMs: cfg.Slots.ClipboardDelayMs,
		LogLevel:         cfg.LogLevel,
		WebPort:          cfg.Web.Port,
		TrayEnabled:      cfg.Tray.Enabled,
		HistoryEnabled:   cfg.History.Enabled,
		MetricsInterval:  cfg.Metrics.IntervalMs,
	})
}

// handleSlots returns all slots
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, SlotsMessage{Slots: slotViews(s.store.Snapshot())})
}

// handleSlot handles GET and DELETE for a single slot, /api/slots/{index}
func (s *Server) handleSlot(w http.ResponseWriter, r *http.Request) {
	idx, ok := lastPathInt(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid slot", http.StatusBadRequest)
		return
	}
	index := int(idx)

	switch r.Method {
	case http.MethodGet:
		content, err := s.store.Get(index)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, slotViews([]slots.Slot{{Index: index, Content: content}})[0])

	case http.MethodDelete:
		cleared, err := s.store.Reset(index)
		if err != nil {
			if errors.Is(err, slots.ErrInvalidSlot) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			slog.Error("Failed to reset slot", "error", err, "slot", index)
			http.Error(w, "Failed to reset slot", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"status": "success", "cleared": cleared})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleHistory handles GET and DELETE requests for the action log
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "History disabled", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetHistory(w, r)
	case http.MethodDelete:
		s.handleDeleteHistory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetHistory returns paginated action history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 50 // default
	offset := 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	actions, err := s.db.GetActions(limit, offset)
	if err != nil {
		slog.Error("Failed to get actions", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	total, err := s.db.GetActionCount()
	if err != nil {
		slog.Error("Failed to get action count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"actions": actions,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// handleDeleteHistory deletes an action by ID, /api/history/{id}
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := lastPathInt(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteAction(id); err != nil {
		slog.Error("Failed to delete action", "error", err, "id", id)
		http.Error(w, "Failed to delete action", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "success"})
}

// handleStats returns statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.db == nil {
		http.Error(w, "History disabled", http.StatusNotFound)
		return
	}

	daysStr := r.URL.Query().Get("days")
	days := 7 // default to 7 days
	if daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	perSlot, err := s.db.GetSlotStats(days)
	if err != nil {
		slog.Error("Failed to get slot stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"daily": daily,
		"slots": perSlot,
	})
}

// handleMetrics returns the latest system metrics sample
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.sampler == nil {
		http.Error(w, "Metrics disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, s.sampler.Latest())
}

// handleStatus reports slot occupancy
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	occupied := 0
	for _, slot := range s.store.Snapshot() {
		if !slot.Empty() {
			occupied++
		}
	}

	writeJSON(w, map[string]interface{}{
		"status":   "running",
		"occupied": occupied,
		"slots":    slots.NumSlots,
	})
}
