package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/google/uuid"
)

const timeFormat = time.RFC3339Nano

// EncodeCursorToken creates an opaque token continuing a created_at DESC,
// transaction_id DESC listing after the given row.
func EncodeCursorToken(createdAt time.Time, transactionID string) string {
	tokenStr := fmt.Sprintf("%s|%s", createdAt.UTC().Format(timeFormat), transactionID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursorToken parses a token produced by EncodeCursorToken.
func DecodeCursorToken(token string) (*domain.Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid pagination token format (split)")
	}

	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	if _, err := uuid.Parse(parts[1]); err != nil {
		return nil, fmt.Errorf("invalid pagination token format (transaction id): %w", err)
	}

	return &domain.Cursor{CreatedAt: createdAt, TransactionID: parts[1]}, nil
}

// NextToken returns the token for the page following txns, or nil when the
// page was not full and nothing follows.
func NextToken(txns []domain.Transaction, limit int) *string {
	if limit <= 0 || len(txns) < limit {
		return nil
	}
	last := txns[len(txns)-1]
	token := EncodeCursorToken(last.CreatedAt, last.TransactionID)
	return &token
}
