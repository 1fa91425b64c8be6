package constants

// Audit log actions and entity types.
const (
	AuditActionCreateBill    = "CREATE_BILL"
	AuditActionUpdateBill    = "UPDATE_BILL"
	AuditActionDeleteBill    = "DELETE_BILL"
	AuditActionCreatePayment = "CREATE_PAYMENT"
	AuditActionDeletePayment = "DELETE_PAYMENT"

	AuditEntityBill    = "bill"
	AuditEntityPayment = "payment"
)
