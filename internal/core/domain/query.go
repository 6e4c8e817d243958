package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Field names a filterable/orderable transaction column.
type Field string

const (
	FieldStatus           Field = "status"
	FieldType             Field = "type"
	FieldDueDate          Field = "due_date"
	FieldPaymentDate      Field = "payment_date"
	FieldAmount           Field = "amount"
	FieldCategoryID       Field = "category_id"
	FieldMinistryID       Field = "ministry_id"
	FieldInstallmentGroup Field = "installment_group_id"
	FieldCreatedAt        Field = "created_at"
)

var knownFields = map[Field]bool{
	FieldStatus: true, FieldType: true, FieldDueDate: true, FieldPaymentDate: true,
	FieldAmount: true, FieldCategoryID: true, FieldMinistryID: true,
	FieldInstallmentGroup: true, FieldCreatedAt: true,
}

// Operator is a comparison supported by the transaction store.
type Operator string

const (
	OpEq      Operator = "eq"
	OpGte     Operator = "gte"
	OpLte     Operator = "lte"
	OpLt      Operator = "lt"
	OpNotNull Operator = "not_null"
	OpIsNull  Operator = "is_null"
	OpOr      Operator = "or"
	OpAnd     Operator = "and"
)

// Predicate is a single condition, or with OpOr/OpAnd a group of conditions
// held in Any.
type Predicate struct {
	Field Field
	Op    Operator
	Value any
	Any   []Predicate
}

func Eq(f Field, v any) Predicate  { return Predicate{Field: f, Op: OpEq, Value: v} }
func Gte(f Field, v any) Predicate { return Predicate{Field: f, Op: OpGte, Value: v} }
func Lte(f Field, v any) Predicate { return Predicate{Field: f, Op: OpLte, Value: v} }
func Lt(f Field, v any) Predicate  { return Predicate{Field: f, Op: OpLt, Value: v} }
func NotNull(f Field) Predicate    { return Predicate{Field: f, Op: OpNotNull} }
func IsNull(f Field) Predicate     { return Predicate{Field: f, Op: OpIsNull} }

// Or holds when any of ps holds.
func Or(ps ...Predicate) Predicate { return Predicate{Op: OpOr, Any: ps} }

// And holds when all of ps hold; used to nest conjunctions inside Or.
func And(ps ...Predicate) Predicate { return Predicate{Op: OpAnd, Any: ps} }

// Order is one ORDER BY term. Null values always sort last.
type Order struct {
	Field Field
	Desc  bool
}

// Cursor continues a created_at DESC, transaction_id DESC listing.
type Cursor struct {
	CreatedAt     time.Time
	TransactionID string
}

// TransactionQuery is a tenant-scoped read against the transaction store.
// ChurchID is mandatory; stores must apply it before any other predicate.
type TransactionQuery struct {
	ChurchID string
	Where    []Predicate
	OrderBy  []Order
	After    *Cursor
	Limit    int
}

// NewTransactionQuery starts a query scoped to churchID.
func NewTransactionQuery(churchID string) *TransactionQuery {
	return &TransactionQuery{ChurchID: churchID}
}

// Filter appends predicates that must all hold.
func (q *TransactionQuery) Filter(ps ...Predicate) *TransactionQuery {
	q.Where = append(q.Where, ps...)
	return q
}

// Sort appends an ORDER BY term.
func (q *TransactionQuery) Sort(f Field, desc bool) *TransactionQuery {
	q.OrderBy = append(q.OrderBy, Order{Field: f, Desc: desc})
	return q
}

// Validate rejects unscoped queries and unknown fields or operators.
func (q *TransactionQuery) Validate() error {
	if q == nil || q.ChurchID == "" {
		return fmt.Errorf("transaction query must be scoped to a church")
	}
	for _, p := range q.Where {
		if err := p.validate(); err != nil {
			return err
		}
	}
	for _, o := range q.OrderBy {
		if !knownFields[o.Field] {
			return fmt.Errorf("unknown order field %q", o.Field)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

func (p Predicate) validate() error {
	switch p.Op {
	case OpOr, OpAnd:
		if len(p.Any) == 0 {
			return fmt.Errorf("empty %s predicate", p.Op)
		}
		for _, sub := range p.Any {
			if err := sub.validate(); err != nil {
				return err
			}
		}
		return nil
	case OpEq, OpGte, OpLte, OpLt, OpNotNull, OpIsNull:
		if !knownFields[p.Field] {
			return fmt.Errorf("unknown field %q", p.Field)
		}
		return nil
	}
	return fmt.Errorf("unknown operator %q", p.Op)
}

// Matches evaluates the query against t in memory, with SQL NULL semantics:
// a comparison against a missing value is false.
func (q *TransactionQuery) Matches(t Transaction) bool {
	if t.ChurchID != q.ChurchID {
		return false
	}
	for _, p := range q.Where {
		if !p.Matches(t) {
			return false
		}
	}
	if q.After != nil {
		if t.CreatedAt.After(q.After.CreatedAt) {
			return false
		}
		if t.CreatedAt.Equal(q.After.CreatedAt) && t.TransactionID >= q.After.TransactionID {
			return false
		}
	}
	return true
}

// Matches evaluates a single predicate against t.
func (p Predicate) Matches(t Transaction) bool {
	switch p.Op {
	case OpOr:
		for _, sub := range p.Any {
			if sub.Matches(t) {
				return true
			}
		}
		return false
	case OpAnd:
		for _, sub := range p.Any {
			if !sub.Matches(t) {
				return false
			}
		}
		return true
	}

	v, ok := FieldValue(t, p.Field)
	if p.Op == OpIsNull {
		return !ok
	}
	if !ok {
		return false
	}
	if p.Op == OpNotNull {
		return true
	}
	c, ok := compareValues(v, p.Value)
	if !ok {
		return false
	}
	switch p.Op {
	case OpEq:
		return c == 0
	case OpGte:
		return c >= 0
	case OpLte:
		return c <= 0
	case OpLt:
		return c < 0
	}
	return false
}

// FieldValue extracts a column value from t; ok is false for NULL.
func FieldValue(t Transaction, f Field) (any, bool) {
	switch f {
	case FieldStatus:
		return string(t.Status), true
	case FieldType:
		return string(t.Type), true
	case FieldDueDate:
		if t.DueDate == nil {
			return nil, false
		}
		return NormalizeDate(*t.DueDate), true
	case FieldPaymentDate:
		if t.PaymentDate == nil {
			return nil, false
		}
		return NormalizeDate(*t.PaymentDate), true
	case FieldAmount:
		return t.Amount, true
	case FieldCategoryID:
		return derefString(t.CategoryID)
	case FieldMinistryID:
		return derefString(t.MinistryID)
	case FieldInstallmentGroup:
		return derefString(t.InstallmentGroup)
	case FieldCreatedAt:
		return t.CreatedAt, true
	}
	return nil, false
}

func derefString(s *string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return *s, true
}

// compareValues returns -1, 0 or 1 comparing a stored value with a predicate
// operand. Typed string enums are compared by their string value.
func compareValues(stored, operand any) (int, bool) {
	switch s := stored.(type) {
	case string:
		o, ok := stringOperand(operand)
		if !ok {
			return 0, false
		}
		switch {
		case s < o:
			return -1, true
		case s > o:
			return 1, true
		}
		return 0, true
	case time.Time:
		o, ok := operand.(time.Time)
		if !ok {
			return 0, false
		}
		return s.Compare(o), true
	case decimal.Decimal:
		o, ok := operand.(decimal.Decimal)
		if !ok {
			return 0, false
		}
		return s.Cmp(o), true
	}
	return 0, false
}

func stringOperand(v any) (string, bool) {
	switch o := v.(type) {
	case string:
		return o, true
	case TransactionStatus:
		return string(o), true
	case TransactionType:
		return string(o), true
	}
	return "", false
}

// CompareByField orders a before b on one field; nulls sort last.
func CompareByField(a, b Transaction, f Field) int {
	av, aok := FieldValue(a, f)
	bv, bok := FieldValue(b, f)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	c, _ := compareValues(av, bv)
	return c
}
