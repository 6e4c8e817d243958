package dto

import "github.com/SscSPs/church_finance_app/internal/core/domain"

// ListSheetsRequest is the body of the Sheets listing function.
type ListSheetsRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
}

// ListSheetsResponse is returned on success.
type ListSheetsResponse struct {
	Sheets []domain.Spreadsheet `json:"sheets"`
}

// FunctionErrorResponse is returned by the serverless-style functions on failure.
type FunctionErrorResponse struct {
	Error string `json:"error"`
}
