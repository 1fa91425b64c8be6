package fields

const (
	FieldObjectId  = "_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldStatus    = "status"

	FieldBookName     = "name"
	FieldBookPrice    = "default_price"
	FieldBookIsActive = "is_active"

	FieldTeacherName   = "teacher_name"
	FieldTeacherMobile = "mobile"
	FieldTeacherSchool = "school_name"
	FieldTeacherActive = "active"

	FieldBillNumber        = "bill_number"
	FieldBillDate          = "date"
	FieldBillTeacher       = "teacher"
	FieldBillBookEntries   = "book_entries"
	FieldBillTotalAmount   = "total_amount"
	FieldBillRemainPayment = "remain_payment"

	FieldPaymentBill   = "bill"
	FieldPaymentDate   = "payment_date"
	FieldPaymentAmount = "amount"
)
