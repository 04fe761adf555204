package clierrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydrosmart/reporter/internal/clierrors"
	"github.com/hydrosmart/reporter/internal/types"
)

func TestCode(t *testing.T) {
	inner := errors.New("boom")

	t.Run("Nil", func(t *testing.T) {
		assert.Equal(t, types.ExitNormal, clierrors.Code(nil))
	})

	t.Run("Plain", func(t *testing.T) {
		assert.Equal(t, types.ExitErrored, clierrors.Code(inner))
	})

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", clierrors.ExitErrorWrap(types.ExitRejected, inner))
		assert.Equal(t, types.ExitRejected, clierrors.Code(err))
		assert.ErrorIs(t, err, inner, "inner error should stay reachable")
	})

	t.Run("Message", func(t *testing.T) {
		assert.Equal(t, "3: boom", clierrors.ExitErrorWrap(3, inner).Error())
		assert.Equal(t, "2", clierrors.ExitErrorWrap(2, nil).Error())
	})
}
