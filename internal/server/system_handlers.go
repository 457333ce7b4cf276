package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/database"
)

// SystemHandlers serves backend and database diagnostics
type SystemHandlers struct {
	db  *database.DB
	log zerolog.Logger
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(db *database.DB, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		db:  db,
		log: log.With().Str("handler", "system").Logger(),
	}
}

// HandleSystemStatus reports backend and database connection status
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"backend":           "running",
		"database":          "not_available",
		"connection_status": "not_connected",
		"database_path":     "",
		"tables":            []string{},
	}

	if h.db != nil {
		response["database_path"] = h.db.Path()

		if err := h.db.QuickCheck(r.Context()); err != nil {
			h.log.Error().Err(err).Msg("Database ping failed")
			response["database"] = "error"
		} else {
			response["database"] = "connected"
			response["connection_status"] = "connected"

			if tables, err := h.db.TableNames(); err == nil {
				if len(tables) > 10 {
					tables = tables[:10]
				}
				response["tables"] = tables
			}

			if stats, err := h.db.GetStats(); err == nil {
				response["stats"] = map[string]interface{}{
					"size_bytes":     stats.SizeBytes,
					"wal_size_bytes": stats.WALSizeBytes,
					"page_count":     stats.PageCount,
					"page_size":      stats.PageSize,
				}
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
