package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/akashreddykandula/spendWise/internal/analytics"
)

// OwnerHeader identifies the requesting owner. Authentication itself is
// handled upstream; the API trusts this header.
const OwnerHeader = "X-Owner-ID"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ownerFromRequest reads the owner header. Empty means unauthenticated.
func ownerFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(OwnerHeader))
}

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// First hop is the original client.
		if i := strings.IndexByte(ip, ','); i >= 0 {
			return strings.TrimSpace(ip[:i])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// parseWindow reads optional from/to query parameters (2006-01-02).
// Neither set returns the zero window, which callers treat as "default
// period". A malformed date is reported, not silently dropped.
func parseWindow(r *http.Request) (analytics.Window, bool, string) {
	fromStr := strings.TrimSpace(r.URL.Query().Get("from"))
	toStr := strings.TrimSpace(r.URL.Query().Get("to"))
	if fromStr == "" && toStr == "" {
		return analytics.Window{}, true, ""
	}
	if fromStr == "" || toStr == "" {
		return analytics.Window{}, false, "both from and to are required for an explicit range"
	}

	from, err := time.ParseInLocation("2006-01-02", fromStr, time.UTC)
	if err != nil {
		return analytics.Window{}, false, "invalid from date, want YYYY-MM-DD"
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, time.UTC)
	if err != nil {
		return analytics.Window{}, false, "invalid to date, want YYYY-MM-DD"
	}
	// Include the whole final day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	return analytics.Explicit(from, to), true, ""
}
