package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusFor(t *testing.T) {
	tests := []struct {
		transaction TransactionStatus
		want        OrderStatus
		recognized  bool
	}{
		{TransactionStatusPending, OrderStatusUnpaid, true},
		{TransactionStatusSettlement, OrderStatusIssued, true},
		{TransactionStatusCapture, OrderStatusIssued, true},
		{TransactionStatusCancel, OrderStatusCancelled, true},
		{TransactionStatusDeny, OrderStatusCancelled, true},
		{TransactionStatusExpire, OrderStatusExpired, true},
		{TransactionStatus("refund"), OrderStatusUnknown, false},
		{TransactionStatus(""), OrderStatusUnknown, false},
	}

	for _, tt := range tests {
		got, recognized := OrderStatusFor(tt.transaction)
		assert.Equal(t, tt.want, got, "transaction status %q", tt.transaction)
		assert.Equal(t, tt.recognized, recognized, "transaction status %q", tt.transaction)
	}
}

func TestTransactionStatusSettled(t *testing.T) {
	assert.True(t, TransactionStatusSettlement.Settled())
	assert.True(t, TransactionStatusCapture.Settled())
	assert.False(t, TransactionStatusPending.Settled())
	assert.False(t, TransactionStatusCancel.Settled())
	assert.False(t, TransactionStatusExpire.Settled())
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, OrderStatusUnpaid.Terminal())
	assert.True(t, OrderStatusIssued.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.True(t, OrderStatusExpired.Terminal())
	assert.True(t, OrderStatusUnknown.Terminal())
}

func TestSeatClassValid(t *testing.T) {
	assert.True(t, SeatClassEconomy.Valid())
	assert.True(t, SeatClassBusiness.Valid())
	assert.True(t, SeatClassFirst.Valid())
	assert.False(t, SeatClass("premium").Valid())
}
