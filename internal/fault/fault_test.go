package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := NotFoundf("no order with id %d", 42)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsInvalid(err))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "no order with id 42", err.Error())
}

func TestWrappedKindSurvives(t *testing.T) {
	err := fmt.Errorf("checkout: %w", Invalidf("quantity must be positive"))

	assert.True(t, IsInvalid(err))
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestInternalCarriesInnermostCause(t *testing.T) {
	root := errors.New("connection reset")
	err := Internal(fmt.Errorf("exec insert: %w", root), "create order")

	assert.False(t, IsNotFound(err))
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "create order: connection reset", err.Error())
	assert.True(t, errors.Is(err, root))
}

func TestForeignErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("whatever")))
	assert.False(t, IsNotFound(errors.New("whatever")))
}
