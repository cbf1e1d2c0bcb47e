package statistics

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/stats"
)

// CategoryStat is one row of the expense breakdown.
type CategoryStat struct {
	CategoryID string `json:"categoryID" doc:"Category UUID"`
	Name       string `json:"name" doc:"Category name"`
	Icon       string `json:"icon" doc:"Display icon"`
	Color      string `json:"color" doc:"Display color"`
	Total      string `json:"total" doc:"Decimal expense total"`
	Percentage string `json:"percentage" doc:"Share of total expense, 2 decimal places"`
}

// PeriodStat is one bucket of a time series.
type PeriodStat struct {
	Date    string `json:"date" doc:"Bucket start date (YYYY-MM-DD)"`
	Label   string `json:"label" doc:"Display label"`
	Income  string `json:"income" doc:"Decimal income"`
	Expense string `json:"expense" doc:"Decimal expense"`
}

type StatisticsBody struct {
	Period            string         `json:"period" enum:"week,month,year" doc:"Aggregated period"`
	From              string         `json:"from" doc:"First date in the window"`
	To                string         `json:"to" doc:"Last date in the window"`
	TotalIncome       string         `json:"totalIncome" doc:"Decimal income total"`
	TotalExpense      string         `json:"totalExpense" doc:"Decimal expense total"`
	Net               string         `json:"net" doc:"Income minus expense"`
	CategoryBreakdown []CategoryStat `json:"categoryBreakdown" doc:"Expense per category, largest first"`
	TimeSeries        []PeriodStat   `json:"timeSeries" doc:"Daily buckets for week and month, monthly for year"`
	MonthlyTrend      []PeriodStat   `json:"monthlyTrend" doc:"Trailing six calendar months"`
}

type GetStatisticsInput struct {
	Period string `query:"period" enum:"week,month,year" doc:"Period to aggregate, defaults to month"`
}

type GetStatisticsOutput struct {
	Body StatisticsBody
}

type AccountSummary struct {
	ID      string `json:"id" doc:"Account UUID"`
	Name    string `json:"name" doc:"Account name"`
	Type    string `json:"type" doc:"Account type"`
	Balance string `json:"balance" doc:"Decimal balance"`
	Color   string `json:"color" doc:"Display color"`
	Icon    string `json:"icon" doc:"Display icon"`
}

type RecentTransaction struct {
	ID          string  `json:"id" doc:"Transaction UUID"`
	AccountID   string  `json:"accountID" doc:"Account UUID"`
	CategoryID  string  `json:"categoryID" doc:"Category UUID"`
	Type        string  `json:"type" doc:"Transaction type"`
	Amount      string  `json:"amount" doc:"Decimal amount"`
	Description *string `json:"description,omitempty" doc:"Description"`
	Date        string  `json:"date" doc:"Calendar date (YYYY-MM-DD)"`
}

type DashboardBody struct {
	MonthlyIncome      string              `json:"monthlyIncome" doc:"Income month to date"`
	MonthlyExpense     string              `json:"monthlyExpense" doc:"Expense month to date"`
	TotalBalance       string              `json:"totalBalance" doc:"Sum of all account balances"`
	Accounts           []AccountSummary    `json:"accounts" doc:"Every account"`
	RecentTransactions []RecentTransaction `json:"recentTransactions" doc:"Latest transactions"`
}

type GetDashboardOutput struct {
	Body DashboardBody
}

type statisticsService interface {
	GetStatistics(ctx context.Context, ownerID uuid.UUID, period string) (*service.Statistics, error)
	GetDashboard(ctx context.Context, ownerID uuid.UUID) (*service.Dashboard, error)
}

// Handler serves the read-only aggregate endpoints.
type Handler struct {
	StatisticsService statisticsService
}

func NewHandler(svc statisticsService) *Handler {
	return &Handler{StatisticsService: svc}
}

// Register registers the statistics and dashboard endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-statistics",
		Method:      http.MethodGet,
		Path:        "/v1/statistics",
		Summary:     "Get statistics",
		Description: "Totals, expense breakdown by category, a time series for the period and a six month trend.",
		Tags:        []string{"Statistics"},
	}, h.getStatistics)
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard",
		Summary:     "Get dashboard",
		Tags:        []string{"Statistics"},
	}, h.getDashboard)
}

func periodStats(in []stats.PeriodStat) []PeriodStat {
	out := make([]PeriodStat, len(in))
	for i, p := range in {
		out[i] = PeriodStat{
			Date:    p.Date.Format(time.DateOnly),
			Label:   p.Label,
			Income:  p.Income.String(),
			Expense: p.Expense.String(),
		}
	}
	return out
}

func (h *Handler) getStatistics(ctx context.Context, input *GetStatisticsInput) (*GetStatisticsOutput, error) {
	logData := logging.GetLogData(ctx)

	stopTimer := logData.AddTiming("getStatisticsMs")
	result, err := h.StatisticsService.GetStatistics(ctx, auth.OwnerFromContext(ctx), input.Period)
	stopTimer()
	if err != nil {
		return nil, apierror.FromService(err, "failed to compute statistics")
	}

	body := StatisticsBody{
		Period:            string(result.Period),
		From:              result.From.Format(time.DateOnly),
		To:                result.To.Format(time.DateOnly),
		TotalIncome:       result.TotalIncome.String(),
		TotalExpense:      result.TotalExpense.String(),
		Net:               result.Net.String(),
		CategoryBreakdown: make([]CategoryStat, len(result.CategoryBreakdown)),
		TimeSeries:        periodStats(result.TimeSeries),
		MonthlyTrend:      periodStats(result.MonthlyTrend),
	}
	for i, c := range result.CategoryBreakdown {
		body.CategoryBreakdown[i] = CategoryStat{
			CategoryID: c.CategoryID.String(),
			Name:       c.Name,
			Icon:       c.Icon,
			Color:      c.Color,
			Total:      c.Total.String(),
			Percentage: c.Percentage.StringFixed(2),
		}
	}
	return &GetStatisticsOutput{Body: body}, nil
}

func (h *Handler) getDashboard(ctx context.Context, _ *struct{}) (*GetDashboardOutput, error) {
	dash, err := h.StatisticsService.GetDashboard(ctx, auth.OwnerFromContext(ctx))
	if err != nil {
		return nil, apierror.FromService(err, "failed to load dashboard")
	}

	body := DashboardBody{
		MonthlyIncome:      dash.MonthlyIncome.String(),
		MonthlyExpense:     dash.MonthlyExpense.String(),
		TotalBalance:       dash.TotalBalance.String(),
		Accounts:           make([]AccountSummary, len(dash.Accounts)),
		RecentTransactions: make([]RecentTransaction, len(dash.RecentTransactions)),
	}
	for i, acc := range dash.Accounts {
		body.Accounts[i] = AccountSummary{
			ID:      acc.ID.String(),
			Name:    acc.Name,
			Type:    string(acc.Type),
			Balance: acc.Balance.String(),
			Color:   acc.Color,
			Icon:    acc.Icon,
		}
	}
	for i, tx := range dash.RecentTransactions {
		body.RecentTransactions[i] = RecentTransaction{
			ID:          tx.ID.String(),
			AccountID:   tx.AccountID.String(),
			CategoryID:  tx.CategoryID.String(),
			Type:        string(tx.Type),
			Amount:      tx.Amount.String(),
			Description: tx.Description,
			Date:        tx.Date.Format(time.DateOnly),
		}
	}
	return &GetDashboardOutput{Body: body}, nil
}
