package domain

// QueryKey names a family of cached reads derived from transaction data.
type QueryKey string

const (
	KeyTransactions          QueryKey = "transactions"
	KeyTransactionStats      QueryKey = "transaction-stats"
	KeyOverdueTransactions   QueryKey = "overdue-transactions"
	KeyTodaysDueTransactions QueryKey = "todays-due-transactions"
	KeyDueTransactionAlerts  QueryKey = "due-transaction-alerts"
	KeyInstallmentStats      QueryKey = "installment-stats"
	KeyFilteredTransactions  QueryKey = "filtered-transactions"
)

// TransactionQueryKeys is the fixed set invalidated whenever transaction
// data changes.
var TransactionQueryKeys = []QueryKey{
	KeyTransactions,
	KeyTransactionStats,
	KeyOverdueTransactions,
	KeyTodaysDueTransactions,
	KeyDueTransactionAlerts,
	KeyInstallmentStats,
	KeyFilteredTransactions,
}
