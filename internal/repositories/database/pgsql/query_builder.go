package pgsql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// columnFor maps a query field onto its qualified column. Fields are named
// after their columns, so the lookup only guards against unknown names.
var columnFor = map[domain.Field]string{
	domain.FieldStatus:           "t.status",
	domain.FieldType:             "t.type",
	domain.FieldDueDate:          "t.due_date",
	domain.FieldPaymentDate:      "t.payment_date",
	domain.FieldAmount:           "t.amount",
	domain.FieldCategoryID:       "t.category_id",
	domain.FieldMinistryID:       "t.ministry_id",
	domain.FieldInstallmentGroup: "t.installment_group_id",
	domain.FieldCreatedAt:        "t.created_at",
}

var comparisonOps = map[domain.Operator]string{
	domain.OpEq:  "=",
	domain.OpGte: ">=",
	domain.OpLte: "<=",
	domain.OpLt:  "<",
}

// sqlBuilder accumulates positional arguments while rendering a query.
type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) arg(v any) string {
	switch x := v.(type) {
	case domain.TransactionStatus:
		v = string(x)
	case domain.TransactionType:
		v = string(x)
	}
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// buildTransactionSelect renders a tenant-scoped select. The church filter is
// always the first condition and the first argument.
func buildTransactionSelect(q *domain.TransactionQuery) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	b := &sqlBuilder{}
	conds := []string{"t.church_id = " + b.arg(q.ChurchID)}
	for _, p := range q.Where {
		cond, err := b.predicate(p)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, cond)
	}
	if q.After != nil {
		conds = append(conds, fmt.Sprintf("(t.created_at, t.transaction_id) < (%s, %s)",
			b.arg(q.After.CreatedAt), b.arg(q.After.TransactionID)))
	}

	var sb strings.Builder
	sb.WriteString(selectTransactionColumns)
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(conds, " AND "))

	order := make([]string, 0, len(q.OrderBy)+1)
	for _, o := range q.OrderBy {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		order = append(order, columnFor[o.Field]+" "+dir+" NULLS LAST")
	}
	order = append(order, "t.transaction_id DESC")
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(order, ", "))

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.arg(q.Limit))
	}
	return sb.String(), b.args, nil
}

func (b *sqlBuilder) predicate(p domain.Predicate) (string, error) {
	switch p.Op {
	case domain.OpOr, domain.OpAnd:
		joiner := " OR "
		if p.Op == domain.OpAnd {
			joiner = " AND "
		}
		parts := make([]string, 0, len(p.Any))
		for _, sub := range p.Any {
			part, err := b.predicate(sub)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		return "(" + strings.Join(parts, joiner) + ")", nil
	}

	col, ok := columnFor[p.Field]
	if !ok {
		return "", fmt.Errorf("%w: unknown field %q", apperrors.ErrValidation, p.Field)
	}
	switch p.Op {
	case domain.OpNotNull:
		return col + " IS NOT NULL", nil
	case domain.OpIsNull:
		return col + " IS NULL", nil
	}
	op, ok := comparisonOps[p.Op]
	if !ok {
		return "", fmt.Errorf("%w: unknown operator %q", apperrors.ErrValidation, p.Op)
	}
	return col + " " + op + " " + b.arg(p.Value), nil
}
