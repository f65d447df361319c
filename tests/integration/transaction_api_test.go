package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/adapter/http/dto"
)

func TestStandaloneTransactionAPI(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "transactions@example.com")

	body, err := json.Marshal(dto.CreateTransactionRequest{
		Amount: decimal.RequireFromString("2500"),
		Type:   "income",
		Name:   "salary",
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/v1/transactions", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.TransactionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "income", created.Type)
	require.True(t, created.Amount.Equal(decimal.RequireFromString("2500")))

	w = env.do(t, http.MethodGet, "/api/v1/transactions/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	name := "salary (march)"
	updateBody, err := json.Marshal(dto.UpdateTransactionRequest{Name: &name})
	require.NoError(t, err)

	w = env.do(t, http.MethodPut, "/api/v1/transactions/"+created.ID, updateBody, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated dto.TransactionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, name, updated.Name)

	w = env.do(t, http.MethodGet, "/api/v1/transactions?limit=10", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list dto.ListTransactionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Transactions, 1)

	w = env.do(t, http.MethodDelete, "/api/v1/transactions/"+created.ID, nil, token)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/transactions/"+created.ID, nil, token)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestTransactionTypeValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "txtype@example.com")

	body, err := json.Marshal(dto.CreateTransactionRequest{
		Amount: decimal.RequireFromString("10"),
		Type:   "gift",
		Name:   "bad type",
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/v1/transactions", body, token)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}
