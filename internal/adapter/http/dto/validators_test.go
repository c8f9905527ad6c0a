package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := ResolveUnsettledRequest{
		Action: "  refunded manually  ",
		Notes:  " bank transfer ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "refunded manually", req.Action)
	assert.Equal(t, "bank transfer", req.Notes)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := ResolveUnsettledRequest{
		Action: "refunded",
		Notes:  "student <script>alert('x')</script> asked",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Notes, "&lt;script&gt;")
	assert.NotContains(t, req.Notes, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	course := "  3f1c2a54-8d6e-4b7a-9c0d-1e2f3a4b5c6d  "
	req := PaymentConfirmedRequest{CourseID: &course}
	SanitizeStruct(&req)

	assert.Equal(t, "3f1c2a54-8d6e-4b7a-9c0d-1e2f3a4b5c6d", *req.CourseID)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := PaymentConfirmedRequest{CourseID: nil}
	SanitizeStruct(&req)
	assert.Nil(t, req.CourseID)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"ch_3PqR9t2eZvKYlo2C",
		"pi-002",
		"a.b.c",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"ch 001",      // space
		"ch<001>",     // angle brackets
		"ch;DROP",     // semicolon
		"",            // empty
		"hello world", // space
		"ch\n001",     // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func validRefund() RefundIssuedRequest {
	return RefundIssuedRequest{
		GatewayTransactionID: "ch_123",
		RefundedAmount:       decimal.RequireFromString("10.00"),
	}
}

func TestDecimalGT0(t *testing.T) {
	req := validRefund()
	assert.NoError(t, binding.Validator.ValidateStruct(&req))

	req.RefundedAmount = decimal.Zero
	assert.Error(t, binding.Validator.ValidateStruct(&req))

	req.RefundedAmount = decimal.RequireFromString("-5")
	assert.Error(t, binding.Validator.ValidateStruct(&req))
}

func TestDecimalGTE0_OptionalPointer(t *testing.T) {
	req := ResolveUnsettledRequest{Action: "refunded"}
	assert.NoError(t, binding.Validator.ValidateStruct(&req))

	zero := decimal.Zero
	req.Amount = &zero
	assert.NoError(t, binding.Validator.ValidateStruct(&req))

	negative := decimal.RequireFromString("-0.01")
	req.Amount = &negative
	assert.Error(t, binding.Validator.ValidateStruct(&req))
}

func TestPaymentConfirmedRequest_Validation(t *testing.T) {
	req := PaymentConfirmedRequest{
		GatewayTransactionID: "ch_123",
		GrossAmount:          decimal.RequireFromString("50.00"),
		Currency:             "USD",
		PayerID:              "3f1c2a54-8d6e-4b7a-9c0d-1e2f3a4b5c6d",
		PayeeID:              "9a8b7c6d-5e4f-4a3b-8c1d-0e9f8a7b6c5d",
	}
	assert.NoError(t, binding.Validator.ValidateStruct(&req))

	req.PayerID = "not-a-uuid"
	assert.Error(t, binding.Validator.ValidateStruct(&req))
}
