package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/akashreddykandula/spendWise/internal/core"
	"github.com/akashreddykandula/spendWise/internal/storage"
)

type budgetDTO struct {
	Owner        string           `json:"owner"`
	MonthlyCents int64            `json:"monthlyCents"`
	Categories   map[string]int64 `json:"categories,omitempty"`
}

type upsertBudgetRequest struct {
	MonthlyCents int64            `json:"monthlyCents"`
	Categories   map[string]int64 `json:"categories"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
		return
	}

	budget, err := s.service.GetBudget(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "Get budget failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load budget")
		return
	}

	writeJSON(w, http.StatusOK, toBudgetDTO(budget))
}

func (s *Server) handlePutBudget(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
		return
	}

	var req upsertBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	budget := core.Budget{
		Owner:   owner,
		Monthly: core.Money{Cents: req.MonthlyCents},
	}
	if len(req.Categories) > 0 {
		budget.Categories = make(map[string]core.Money, len(req.Categories))
		for category, cents := range req.Categories {
			budget.Categories[category] = core.Money{Cents: cents}
		}
	}
	if err := budget.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.UpsertBudget(r.Context(), budget); err != nil {
		if errors.Is(err, storage.ErrReadOnly) {
			writeError(w, http.StatusMethodNotAllowed, "backend is read-only")
			return
		}
		slog.ErrorContext(r.Context(), "Upsert budget failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}

	writeJSON(w, http.StatusOK, toBudgetDTO(budget))
}

func toBudgetDTO(b core.Budget) budgetDTO {
	dto := budgetDTO{
		Owner:        b.Owner,
		MonthlyCents: b.Monthly.Cents,
	}
	if len(b.Categories) > 0 {
		dto.Categories = make(map[string]int64, len(b.Categories))
		for category, limit := range b.Categories {
			dto.Categories[category] = limit.Cents
		}
	}
	return dto
}
