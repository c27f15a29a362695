package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type accountRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Balance     float64 `json:"balance"`
	CreditLimit float64 `json:"creditLimit"`
}

// accountUpdateRequest is the allow-listed update surface. Balance is
// absent on purpose: it only moves through transactions.
type accountUpdateRequest struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type"`
	CreditLimit *float64 `json:"creditLimit"`
	IsActive    *bool    `json:"isActive"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	accounts, err := s.accounts.List(r.Context(), userID, queryBool(r, "includeInactive"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewAccounts(accounts))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	a, err := s.accounts.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewAccount(a))
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	a, err := s.accounts.Create(r.Context(), userID, services.AccountInput{
		Name:        req.Name,
		Type:        core.AccountType(req.Type),
		Balance:     req.Balance,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewAccount(a))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req accountUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	upd := services.AccountUpdate{
		Name:        req.Name,
		CreditLimit: req.CreditLimit,
		IsActive:    req.IsActive,
	}
	if req.Type != nil {
		t := core.AccountType(*req.Type)
		upd.Type = &t
	}
	a, err := s.accounts.Update(r.Context(), userID, id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewAccount(a))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	deactivated, err := s.accounts.Delete(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"deactivated": deactivated})
}

func (s *Server) handleAccountHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	points, err := s.accounts.History(r.Context(), userID, id, queryInt(r, "days", 30))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewHistory(points))
}
