package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/service"
)

var testOwner = uuid.Must(uuid.NewV4())

type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, ownerID uuid.UUID, draft service.TransactionDraft) (*service.Transaction, error) {
	args := m.Called(ctx, ownerID, draft)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*service.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, patch service.TransactionPatch) (*service.Transaction, error) {
	args := m.Called(ctx, ownerID, id, patch)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, ownerID uuid.UUID, filter service.TransactionFilter, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error) {
	args := m.Called(ctx, ownerID, filter, cursor)
	txs, _ := args.Get(0).([]service.Transaction)
	next, _ := args.Get(1).(*service.TransactionCursor)
	return txs, next, args.Error(2)
}

// newTestAPI registers every transaction handler against a humatest API with
// testOwner authenticated.
func newTestAPI(t *testing.T, svc *mockTransactionService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, auth.WithOwner(ctx.Context(), testOwner)))
	})
	NewCreateTransactionHandler(svc).Register(api)
	NewGetTransactionHandler(svc).Register(api)
	NewUpdateTransactionHandler(svc).Register(api)
	NewDeleteTransactionHandler(svc).Register(api)
	NewListTransactionsHandler(svc).Register(api)
	return api
}

func sampleTransaction() *service.Transaction {
	return &service.Transaction{
		ID:         uuid.Must(uuid.NewV4()),
		AccountID:  uuid.Must(uuid.NewV4()),
		CategoryID: uuid.Must(uuid.NewV4()),
		Type:       service.TransactionTypeExpense,
		Amount:     decimal.RequireFromString("12.50"),
		Date:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

// -- parse unit tests --

func TestParseCreateTransactionInput_DefaultsDateToNow(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	input := &CreateTransactionInput{Body: CreateTransactionBody{
		AccountID:  uuid.Must(uuid.NewV4()).String(),
		CategoryID: uuid.Must(uuid.NewV4()).String(),
		Type:       "income",
		Amount:     "123.45",
	}}

	draft, err := parseCreateTransactionInput(input, now)
	require.NoError(t, err)
	assert.True(t, draft.Amount.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, service.TransactionTypeIncome, draft.Type)
	assert.Equal(t, now, draft.Date)
}

func TestParseUpdateTransactionInput_OnlySetFields(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	amount := "9.99"
	empty := ""
	input := &UpdateTransactionInput{
		TransactionIDPath: TransactionIDPath{ID: id.String()},
		Body:              UpdateTransactionBody{Amount: &amount, Description: &empty},
	}

	parsedID, patch, err := parseUpdateTransactionInput(input)
	require.NoError(t, err)
	assert.Equal(t, id, parsedID)
	require.NotNil(t, patch.Amount)
	assert.True(t, patch.Amount.Equal(decimal.RequireFromString("9.99")))
	require.NotNil(t, patch.Description)
	assert.Empty(t, *patch.Description)
	assert.Nil(t, patch.AccountID)
	assert.Nil(t, patch.Type)
	assert.Nil(t, patch.Date)
}

func TestParseListTransactionsInput_CursorKeepsNanoseconds(t *testing.T) {
	maxCreation := time.Date(2025, 6, 15, 8, 0, 0, 123456789, time.UTC)
	input := &ListTransactionsInput{Body: ListTransactionsBody{
		Cursor: &ListTransactionsCursor{Position: 40, Limit: 10, MaxCreationTime: maxCreation.Format(time.RFC3339Nano)},
	}}

	_, cursor, err := parseListTransactionsInput(input)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, 40, cursor.Position)
	assert.True(t, maxCreation.Equal(cursor.MaxCreationTime))
}

// -- HTTP tests (full Huma stack via humatest) --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	created := sampleTransaction()
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, testOwner, mock.MatchedBy(func(d service.TransactionDraft) bool {
		return d.AccountID == created.AccountID &&
			d.Amount.Equal(decimal.RequireFromString("12.50")) &&
			d.Date.Equal(created.Date)
	})).Return(created, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/transactions", CreateTransactionBody{
		AccountID:  created.AccountID.String(),
		CategoryID: created.CategoryID.String(),
		Type:       "expense",
		Amount:     "12.50",
		Date:       "2025-06-01",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, created.ID.String(), body.ID)
	assert.Equal(t, "12.5", body.Amount)
	assert.Equal(t, "2025-06-01", body.Date)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_SchemaRejections(t *testing.T) {
	valid := CreateTransactionBody{
		AccountID:  uuid.Must(uuid.NewV4()).String(),
		CategoryID: uuid.Must(uuid.NewV4()).String(),
		Type:       "expense",
		Amount:     "10.00",
	}
	badAccount := valid
	badAccount.AccountID = "not-a-uuid"
	badType := valid
	badType.Type = "transfer"
	badDate := valid
	badDate.Date = "01/06/2025"

	for name, body := range map[string]CreateTransactionBody{
		"account": badAccount,
		"type":    badType,
		"date":    badDate,
	} {
		t.Run(name, func(t *testing.T) {
			mockSvc := new(mockTransactionService)
			resp := newTestAPI(t, mockSvc).Post("/v1/transactions", body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
			mockSvc.AssertNotCalled(t, "CreateTransaction")
		})
	}
}

func TestHTTP_CreateTransaction_InvalidAmount(t *testing.T) {
	mockSvc := new(mockTransactionService)

	// Amount is a plain string, so the handler parses it and returns 400.
	resp := newTestAPI(t, mockSvc).Post("/v1/transactions", CreateTransactionBody{
		AccountID:  uuid.Must(uuid.NewV4()).String(),
		CategoryID: uuid.Must(uuid.NewV4()).String(),
		Type:       "expense",
		Amount:     "not-a-decimal",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperrors.Validation("amount", "must be greater than zero"), http.StatusBadRequest},
		{"not found", apperrors.NotFound("account"), http.StatusNotFound},
		{"conflict", apperrors.Conflict(assert.AnError), http.StatusConflict},
		{"storage", apperrors.Storage("insert", assert.AnError), http.StatusInternalServerError},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mockTransactionService)
			mockSvc.On("CreateTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			resp := newTestAPI(t, mockSvc).Post("/v1/transactions", CreateTransactionBody{
				AccountID:  uuid.Must(uuid.NewV4()).String(),
				CategoryID: uuid.Must(uuid.NewV4()).String(),
				Type:       "expense",
				Amount:     "0",
			})

			assert.Equal(t, tt.status, resp.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestHTTP_GetTransaction(t *testing.T) {
	tx := sampleTransaction()
	mockSvc := new(mockTransactionService)
	mockSvc.On("GetTransaction", mock.Anything, testOwner, tx.ID).Return(tx, nil)
	missing := uuid.Must(uuid.NewV4())
	mockSvc.On("GetTransaction", mock.Anything, testOwner, missing).Return(nil, apperrors.NotFound("transaction"))
	api := newTestAPI(t, mockSvc)

	resp := api.Get("/v1/transactions/" + tx.ID.String())
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = api.Get("/v1/transactions/" + missing.String())
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_UpdateTransaction(t *testing.T) {
	tx := sampleTransaction()
	mockSvc := new(mockTransactionService)
	mockSvc.On("UpdateTransaction", mock.Anything, testOwner, tx.ID, mock.MatchedBy(func(p service.TransactionPatch) bool {
		return p.Type != nil && *p.Type == service.TransactionTypeIncome && p.Amount == nil
	})).Return(tx, nil)

	resp := newTestAPI(t, mockSvc).Patch("/v1/transactions/"+tx.ID.String(), map[string]any{
		"type": "income",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteTransaction(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("DeleteTransaction", mock.Anything, testOwner, id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/v1/transactions/" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_WithFilterAndCursor(t *testing.T) {
	tx := sampleTransaction()
	next := &service.TransactionCursor{
		Position:        20,
		Limit:           20,
		MaxCreationTime: time.Date(2025, 6, 15, 8, 0, 0, 500, time.UTC),
	}
	mockSvc := new(mockTransactionService)
	mockSvc.On("ListTransactions", mock.Anything, testOwner, mock.MatchedBy(func(f service.TransactionFilter) bool {
		return f.Type != nil && *f.Type == service.TransactionTypeExpense && f.From != nil && f.To == nil
	}), (*service.TransactionCursor)(nil)).Return([]service.Transaction{*tx}, next, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/transactions/list", map[string]any{
		"filter": map[string]any{"type": "expense", "from": "2025-06-01"},
	})

	require.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, next.MaxCreationTime.Format(time.RFC3339Nano), body.NextCursor.MaxCreationTime)
	mockSvc.AssertExpectations(t)
}
