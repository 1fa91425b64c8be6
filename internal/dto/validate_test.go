package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorMobileRule(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name    string
		mobile  string
		wantErr bool
	}{
		{"TenDigits", "0771234567", false},
		{"FifteenDigits", "940771234567890", false},
		{"NineDigits", "077123456", true},
		{"SixteenDigits", "9407712345678901", true},
		{"TooShort", "12345", true},
		{"Letters", "07712345ab", true},
		{"Empty", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := CreateTeacherRequest{
				TeacherName: "A. Perera",
				Mobile:      tc.mobile,
				SchoolName:  "Central College",
			}
			err := v.Struct(&req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatorCreateBillRequest(t *testing.T) {
	v := NewValidator()

	valid := CreateBillRequest{
		BillNumber: "B-2025-001",
		TeacherID:  "64f1c7f8a2b3c4d5e6f70812",
		BookEntries: []BookEntryRequest{
			{BookID: "64f1c7f8a2b3c4d5e6f70813", Price: 350, Quantity: 2},
		},
	}
	assert.NoError(t, v.Struct(&valid))

	t.Run("EmptyEntriesRejected", func(t *testing.T) {
		req := valid
		req.BookEntries = nil
		assert.Error(t, v.Struct(&req))
	})

	t.Run("NegativePriceRejected", func(t *testing.T) {
		req := valid
		req.BookEntries = []BookEntryRequest{
			{BookID: "64f1c7f8a2b3c4d5e6f70813", Price: -1, Quantity: 2},
		}
		assert.Error(t, v.Struct(&req))
	})
}

func TestValidatorCreatePaymentRequest(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(&CreatePaymentRequest{
		BillID: "64f1c7f8a2b3c4d5e6f70812",
		Amount: 500,
	}))

	t.Run("ZeroAmountRejected", func(t *testing.T) {
		assert.Error(t, v.Struct(&CreatePaymentRequest{
			BillID: "64f1c7f8a2b3c4d5e6f70812",
			Amount: 0,
		}))
	})
}
