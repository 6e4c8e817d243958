package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
	sheetsPageSize      = 100
	maxSheetsPages      = 10
)

// sheetsService lists the caller's Google spreadsheets through the Drive API
// using the caller's own OAuth access token.
type sheetsService struct {
	BaseService
	endpoint string
}

// NewSheetsService creates a new sheets service. An empty endpoint uses the
// public Google API.
func NewSheetsService(endpoint string) portssvc.SheetsSvc {
	return &sheetsService{endpoint: endpoint}
}

var _ portssvc.SheetsSvc = (*sheetsService)(nil)

func (s *sheetsService) ListSpreadsheets(ctx context.Context, accessToken string) ([]domain.Spreadsheet, error) {
	if accessToken == "" {
		return nil, apperrors.NewValidationFailedError("access token is required")
	}

	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	sheets := make([]domain.Spreadsheet, 0)
	pages := 0
	err = srv.Files.List().
		Q(fmt.Sprintf("mimeType='%s' and trashed=false", spreadsheetMimeType)).
		Fields("nextPageToken, files(id, name, modifiedTime, webViewLink)").
		OrderBy("modifiedTime desc").
		PageSize(sheetsPageSize).
		Pages(ctx, func(list *drive.FileList) error {
			for _, f := range list.Files {
				sheets = append(sheets, domain.Spreadsheet{
					ID:           f.Id,
					Name:         f.Name,
					ModifiedTime: f.ModifiedTime,
					WebViewLink:  f.WebViewLink,
				})
			}
			pages++
			if pages >= maxSheetsPages {
				return errStopPaging
			}
			return nil
		})
	if err != nil && !errors.Is(err, errStopPaging) {
		s.LogError(ctx, err, "Failed to list spreadsheets")
		return nil, fmt.Errorf("failed to list spreadsheets: %w", err)
	}
	return sheets, nil
}

var errStopPaging = errors.New("page limit reached")
