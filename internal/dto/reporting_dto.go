package dto

import (
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodSummaryParams defines the report period; both bounds are inclusive.
type PeriodSummaryParams struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// GroupAmountResponse is one category or ministry line.
type GroupAmountResponse struct {
	GroupID string          `json:"groupID,omitempty"`
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// PeriodSummaryResponse represents the period summary report response
type PeriodSummaryResponse struct {
	FromDate   string                `json:"fromDate"`
	ToDate     string                `json:"toDate"`
	ByCategory []GroupAmountResponse `json:"byCategory"`
	ByMinistry []GroupAmountResponse `json:"byMinistry"`
	Summary    struct {
		TotalRevenue decimal.Decimal `json:"totalRevenue"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		Balance      decimal.Decimal `json:"balance"`
	} `json:"summary"`
}

func toGroupAmountResponses(groups []domain.GroupAmount) []GroupAmountResponse {
	out := make([]GroupAmountResponse, len(groups))
	for i, g := range groups {
		out[i] = GroupAmountResponse{
			GroupID: g.GroupID,
			Name:    g.Name,
			Revenue: g.Revenue,
			Expense: g.Expense,
			Balance: g.Revenue.Sub(g.Expense),
		}
	}
	return out
}

// ToPeriodSummaryResponse converts a domain.PeriodSummary.
func ToPeriodSummaryResponse(s *domain.PeriodSummary) PeriodSummaryResponse {
	resp := PeriodSummaryResponse{
		FromDate:   s.From.Format(domain.DateLayout),
		ToDate:     s.To.Format(domain.DateLayout),
		ByCategory: toGroupAmountResponses(s.ByCategory),
		ByMinistry: toGroupAmountResponses(s.ByMinistry),
	}
	resp.Summary.TotalRevenue = s.TotalRevenue
	resp.Summary.TotalExpense = s.TotalExpense
	resp.Summary.Balance = s.Balance
	return resp
}
