package services

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// SheetsSvc lists the spreadsheets available to a Google access token.
type SheetsSvc interface {
	ListSpreadsheets(ctx context.Context, accessToken string) ([]domain.Spreadsheet, error)
}
