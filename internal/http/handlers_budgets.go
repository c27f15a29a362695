package http

import (
	"net/http"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type budgetRequest struct {
	CategoryID     string  `json:"categoryId"`
	Amount         float64 `json:"amount"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	AlertThreshold int     `json:"alertThreshold"`
}

type budgetUpdateRequest struct {
	Amount         *float64 `json:"amount"`
	StartDate      *string  `json:"startDate"`
	EndDate        *string  `json:"endDate"`
	AlertThreshold *int     `json:"alertThreshold"`
	IsActive       *bool    `json:"isActive"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	statuses, err := s.budgets.List(r.Context(), userID, queryBool(r, "includeInactive"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]budgetView, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, viewBudgetStatus(st))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	st, err := s.budgets.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewBudgetStatus(st))
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondError(w, r, core.Invalid("categoryId", "must be a valid UUID"))
		return
	}
	start, err := parseBodyDate("startDate", req.StartDate)
	if err != nil {
		respondError(w, r, err)
		return
	}
	end, err := parseBodyDate("endDate", req.EndDate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	b, err := s.budgets.Create(r.Context(), userID, services.BudgetInput{
		CategoryID:     categoryID,
		Amount:         req.Amount,
		StartDate:      start,
		EndDate:        end,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	st, err := s.budgets.Get(r.Context(), userID, b.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewBudgetStatus(st))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req budgetUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	upd := services.BudgetUpdate{
		Amount:         req.Amount,
		AlertThreshold: req.AlertThreshold,
		IsActive:       req.IsActive,
	}
	if req.StartDate != nil {
		start, err := parseBodyDate("startDate", *req.StartDate)
		if err != nil {
			respondError(w, r, err)
			return
		}
		upd.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseBodyDate("endDate", *req.EndDate)
		if err != nil {
			respondError(w, r, err)
			return
		}
		upd.EndDate = &end
	}

	b, err := s.budgets.Update(r.Context(), userID, id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	st, err := s.budgets.Get(r.Context(), userID, b.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewBudgetStatus(st))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.budgets.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
