package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.False(t, Unspecified.Valid())
	assert.False(t, Status(99).Valid())
	assert.False(t, Status(-1).Valid())

	for _, s := range []Status{Pending, Open, CanceledByCustomer, CanceledByStore, InProgress, Shipped, BackOrdered, OutOfStock} {
		assert.True(t, s.Valid(), s.String())
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, Shipped.Terminal())
	assert.True(t, CanceledByCustomer.Terminal())
	assert.True(t, CanceledByStore.Terminal())

	// A later fulfillment pass can revisit these.
	assert.False(t, BackOrdered.Terminal())
	assert.False(t, OutOfStock.Terminal())
	assert.False(t, Open.Terminal())
	assert.False(t, Pending.Terminal())
}

func TestPersistedCoding(t *testing.T) {
	// The integer values are persisted; reordering the constants would
	// silently rewrite the meaning of existing rows.
	assert.Equal(t, 0, int(Unspecified))
	assert.Equal(t, 1, int(Pending))
	assert.Equal(t, 2, int(Open))
	assert.Equal(t, 3, int(CanceledByCustomer))
	assert.Equal(t, 4, int(CanceledByStore))
	assert.Equal(t, 5, int(InProgress))
	assert.Equal(t, 6, int(Shipped))
	assert.Equal(t, 7, int(BackOrdered))
	assert.Equal(t, 8, int(OutOfStock))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Canceled by customer", CanceledByCustomer.String())
	assert.Equal(t, "Back ordered", BackOrdered.String())
	assert.Equal(t, "Unspecified", Status(42).String())
}
