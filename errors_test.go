package qbank_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/qbank"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := qbank.Errorf(qbank.ENOTFOUND, "question %q not found", "test")

	assert.Equal(t, qbank.ENOTFOUND, qbank.ErrorCode(err))
	assert.Equal(t, "question \"test\" not found", qbank.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, qbank.ErrorCode(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("toggle: %w", qbank.Errorf(qbank.ECONFLICT, "contention"))

	assert.Equal(t, qbank.ECONFLICT, qbank.ErrorCode(err))
	assert.Equal(t, "contention", qbank.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, qbank.EINTERNAL, qbank.ErrorCode(errors.New("boom")))
	assert.Equal(t, "Internal error.", qbank.ErrorMessage(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, qbank.ErrorMessage(nil))
}
