package domain

import "time"

// ChangeEventType is the kind of row change reported by the store.
type ChangeEventType string

const (
	EventInsert ChangeEventType = "INSERT"
	EventUpdate ChangeEventType = "UPDATE"
	EventDelete ChangeEventType = "DELETE"
)

// AllChangeEvents subscribes to every change kind.
var AllChangeEvents = []ChangeEventType{EventInsert, EventUpdate, EventDelete}

// TransactionsTable is the table name used for change subscriptions.
const TransactionsTable = "transactions"

// ChangeEvent is one notification from the change feed.
type ChangeEvent struct {
	EventType     ChangeEventType `json:"eventType"`
	Table         string          `json:"table"`
	ChurchID      string          `json:"churchID"`
	TransactionID string          `json:"transactionID"`
	At            time.Time       `json:"at"`
}

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a transient message pushed to connected clients of a church.
type Notice struct {
	ChurchID string      `json:"churchID"`
	Level    NoticeLevel `json:"level"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	At       time.Time   `json:"at"`
}
