package mongodb

const (
	CollectionBooks     = "books"
	CollectionTeachers  = "teachers"
	CollectionBills     = "bills"
	CollectionPayments  = "payments"
	CollectionOutbox    = "outbox"
	CollectionAuditLogs = "audit_logs"
)
