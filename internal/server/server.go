// Package server exposes the finance service as a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Jiegrein/PersonalBankNote/internal/parser"
	"github.com/Jiegrein/PersonalBankNote/internal/service"
)

// Server wraps the finance service with HTTP routing.
type Server struct {
	svc *service.FinanceService
	mux *http.ServeMux
}

// New builds the router over the service.
func New(svc *service.FinanceService) *Server {
	s := &Server{svc: svc, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	s.mux.HandleFunc("GET /api/salary-dashboard", s.handleSalaryDashboard)

	s.mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	s.mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	s.mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	s.mux.HandleFunc("GET /api/banks", s.handleListBanks)
	s.mux.HandleFunc("POST /api/banks", s.handleCreateBank)
	s.mux.HandleFunc("PUT /api/banks/{id}", s.handleUpdateBank)
	s.mux.HandleFunc("DELETE /api/banks/{id}", s.handleDeleteBank)

	s.mux.HandleFunc("GET /api/rules", s.handleListRules)
	s.mux.HandleFunc("POST /api/rules", s.handleCreateRule)
	s.mux.HandleFunc("PUT /api/rules/{id}", s.handleUpdateRule)
	s.mux.HandleFunc("DELETE /api/rules/{id}", s.handleDeleteRule)

	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings", s.handleUpdateSetting)

	s.mux.HandleFunc("GET /api/categories", s.handleListCategories)

	s.mux.HandleFunc("POST /api/sync", s.handleSync)

	s.mux.HandleFunc("POST /api/statements/parse", s.handleParseStatement)
}

// maxStatementSize bounds uploaded e-statement PDFs.
const maxStatementSize = 10 << 20

// handleParseStatement extracts transactions from an uploaded PDF
// e-statement without persisting anything; the caller reviews the parsed
// rows before importing.
func (s *Server) handleParseStatement(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxStatementSize))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "failed to read statement body")
		return
	}

	parsed, err := parser.ParseStatement(data)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "failed to parse statement: not a readable PDF")
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}

func (s *Server) handleSalaryDashboard(w http.ResponseWriter, r *http.Request) {
	monthOffset, _ := strconv.Atoi(r.URL.Query().Get("monthOffset"))

	data, err := s.svc.GetSalaryDashboard(r.Context(), monthOffset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := service.TransactionFilter{BankID: query.Get("bankId")}
	filter.MonthOffset, _ = strconv.Atoi(query.Get("monthOffset"))

	if startStr, endStr := query.Get("startDate"), query.Get("endDate"); startStr != "" && endStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		filter.StartDate, filter.EndDate = &start, &end
	}

	data, err := s.svc.GetBankTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// updateTransactionRequest distinguishes "installmentTerms absent" from an
// explicit null, which clears the terms.
type updateTransactionRequest struct {
	Category         *string         `json:"category"`
	InstallmentTerms json.RawMessage `json:"installmentTerms"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := service.TransactionUpdate{Category: req.Category}
	if len(req.InstallmentTerms) > 0 {
		update.SetInstallmentTerms = true
		if !bytes.Equal(req.InstallmentTerms, []byte("null")) {
			var terms int
			if err := json.Unmarshal(req.InstallmentTerms, &terms); err != nil {
				writeErrorMessage(w, http.StatusBadRequest, "installmentTerms must be a number or null")
				return
			}
			update.InstallmentTerms = &terms
		}
	}

	tx, err := s.svc.UpdateTransaction(r.Context(), r.PathValue("id"), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := s.svc.ListBanks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, banks)
}

func (s *Server) handleCreateBank(w http.ResponseWriter, r *http.Request) {
	var in service.BankInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bank, err := s.svc.CreateBank(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bank)
}

func (s *Server) handleUpdateBank(w http.ResponseWriter, r *http.Request) {
	var in service.BankInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bank, err := s.svc.UpdateBank(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bank)
}

func (s *Server) handleDeleteBank(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteBank(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.svc.ListRules(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var in service.RuleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := s.svc.CreateRule(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var in service.RuleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := s.svc.UpdateRule(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRule(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.GetSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	setting, err := s.svc.UpdateSetting(r.Context(), req.Key, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BankID string `json:"bankId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.svc.SyncBank(r.Context(), req.BankID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] failed to encode response: %v", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps service error codes onto HTTP statuses. Internal failure
// details stay in the log, not the response.
func writeError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Code {
		case service.ErrInvalidArgument:
			writeErrorMessage(w, http.StatusBadRequest, svcErr.Message)
			return
		case service.ErrNotFound:
			writeErrorMessage(w, http.StatusNotFound, svcErr.Message)
			return
		}
	}
	log.Printf("[Server] internal error: %v", err)
	writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
}
