package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
	"github.com/Jiegrein/PersonalBankNote/internal/service"
	"github.com/Jiegrein/PersonalBankNote/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := service.NewFinanceService(st)
	svc.SetClock(func() time.Time {
		return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	})
	return New(svc), st
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestBankEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/banks", map[string]interface{}{
		"name":         "BCA Debit",
		"emailFilter":  "bca@bca.co.id",
		"statementDay": 21,
		"bankType":     "debit",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var bank model.Bank
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bank))
	assert.NotEmpty(t, bank.ID)

	rec = doJSON(t, srv, http.MethodGet, "/api/banks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var banks []*model.Bank
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banks))
	require.Len(t, banks, 1)

	rec = doJSON(t, srv, http.MethodPut, "/api/banks/"+bank.ID, map[string]interface{}{
		"name":         "BCA Main",
		"emailFilter":  "bca@bca.co.id",
		"statementDay": 25,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/banks/"+bank.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/banks/"+bank.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBankValidationStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/banks", map[string]interface{}{
		"name": "incomplete",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "missing required fields")
}

func TestUpdateTransactionEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	tx := &model.Transaction{Merchant: "TOKOPEDIA", Date: time.Now()}
	require.NoError(t, st.CreateTransaction(ctx, tx))

	rec := doJSON(t, srv, http.MethodPatch, "/api/transactions/"+tx.ID, map[string]interface{}{
		"category":         "Shopping",
		"installmentTerms": 12,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Shopping", updated.Category)
	require.NotNil(t, updated.InstallmentTerms)
	assert.Equal(t, 12, *updated.InstallmentTerms)

	// Explicit null clears the terms.
	rec = doJSON(t, srv, http.MethodPatch, "/api/transactions/"+tx.ID, map[string]interface{}{
		"installmentTerms": nil,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Nil(t, updated.InstallmentTerms)

	rec = doJSON(t, srv, http.MethodPatch, "/api/transactions/"+tx.ID, map[string]interface{}{
		"installmentTerms": 7,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPatch, "/api/transactions/missing", map[string]interface{}{
		"category": "Food",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactionsEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	bank := &model.Bank{Name: "BCA", EmailFilter: "a@b.co", StatementDay: 21, BankType: model.BankTypeDebit}
	require.NoError(t, st.CreateBank(ctx, bank))
	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		BankID: bank.ID, Merchant: "SUPERINDO", Category: "Food", Amount: 150000,
		Date: time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
	}))

	rec := doJSON(t, srv, http.MethodGet, "/api/transactions?bankId="+bank.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data model.BankTransactionsData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	require.Len(t, data.Transactions, 1)
	assert.Equal(t, float64(150000), data.Total)

	rec = doJSON(t, srv, http.MethodGet, "/api/transactions?startDate=bogus&endDate=2026-06-30T00:00:00Z", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSalaryDashboardEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/salary-dashboard?monthOffset=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data model.SalaryDashboardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "June 2026", data.Period.Label)
	assert.Equal(t, float64(model.DefaultSalary), data.Salary)
	assert.Len(t, data.DailySpending, 30)
}

func TestSettingsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/settings", map[string]string{
		"key":   model.SettingSalaryMonthlyAmount,
		"value": "25000000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "25000000", settings[model.SettingSalaryMonthlyAmount])

	rec = doJSON(t, srv, http.MethodPut, "/api/settings", map[string]string{
		"key":   model.SettingSalaryMonthlyAmount,
		"value": "-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRuleEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/rules", map[string]interface{}{
		"condition":      "merchantContains",
		"conditionValue": "gopay",
		"category":       "Transport",
		"priority":       10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var rule model.Rule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rule))
	assert.Equal(t, model.RuleMerchantContains, rule.Condition)

	rec = doJSON(t, srv, http.MethodPost, "/api/rules", map[string]interface{}{
		"condition":      "fuzzy",
		"conditionValue": "x",
		"category":       "y",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/rules/"+rule.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncEndpointNotConfigured(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/sync", map[string]string{"bankId": "b1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseStatementEndpointRejectsGarbage(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/statements/parse", bytes.NewReader([]byte("not a pdf")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "failed to parse statement")
}
