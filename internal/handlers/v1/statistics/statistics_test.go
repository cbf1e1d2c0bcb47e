package statistics

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

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/stats"
)

var testOwner = uuid.Must(uuid.NewV4())

type mockStatisticsService struct {
	mock.Mock
}

func (m *mockStatisticsService) GetStatistics(ctx context.Context, ownerID uuid.UUID, period string) (*service.Statistics, error) {
	args := m.Called(ctx, ownerID, period)
	s, _ := args.Get(0).(*service.Statistics)
	return s, args.Error(1)
}

func (m *mockStatisticsService) GetDashboard(ctx context.Context, ownerID uuid.UUID) (*service.Dashboard, error) {
	args := m.Called(ctx, ownerID)
	d, _ := args.Get(0).(*service.Dashboard)
	return d, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockStatisticsService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, auth.WithOwner(ctx.Context(), testOwner)))
	})
	NewHandler(svc).Register(api)
	return api
}

func TestHTTP_GetStatistics(t *testing.T) {
	mockSvc := new(mockStatisticsService)
	mockSvc.On("GetStatistics", mock.Anything, testOwner, "week").Return(&service.Statistics{
		Period:       stats.PeriodWeek,
		From:         time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		TotalIncome:  decimal.NewFromInt(500),
		TotalExpense: decimal.NewFromInt(100),
		Net:          decimal.NewFromInt(400),
		CategoryBreakdown: []stats.CategoryStat{{
			CategoryID: uuid.Must(uuid.NewV4()),
			Name:       "Rent",
			Total:      decimal.NewFromInt(70),
			Percentage: decimal.NewFromInt(70),
		}},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/statistics?period=week")

	require.Equal(t, http.StatusOK, resp.Code)
	var body StatisticsBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2025-06-09", body.From)
	assert.Equal(t, "400", body.Net)
	require.Len(t, body.CategoryBreakdown, 1)
	assert.Equal(t, "70.00", body.CategoryBreakdown[0].Percentage)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_GetStatistics_BadPeriod(t *testing.T) {
	mockSvc := new(mockStatisticsService)

	resp := newTestAPI(t, mockSvc).Get("/v1/statistics?period=decade")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "GetStatistics")
}

func TestHTTP_GetDashboard(t *testing.T) {
	mockSvc := new(mockStatisticsService)
	mockSvc.On("GetDashboard", mock.Anything, testOwner).Return(&service.Dashboard{
		MonthlyIncome:  decimal.NewFromInt(12),
		MonthlyExpense: decimal.RequireFromString("0.5"),
		TotalBalance:   decimal.NewFromInt(162),
		Accounts:       []service.Account{{ID: uuid.Must(uuid.NewV4()), Name: "A", Balance: decimal.NewFromInt(112)}},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/dashboard")

	require.Equal(t, http.StatusOK, resp.Code)
	var body DashboardBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "162", body.TotalBalance)
	assert.Len(t, body.Accounts, 1)
	assert.Empty(t, body.RecentTransactions)
}
