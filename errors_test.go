package whatfits_test

import (
	"errors"
	"testing"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := whatfits.Errorf(whatfits.ENOTFOUND, "product %q not found", "test")

	assert.Equal(t, whatfits.ENOTFOUND, whatfits.ErrorCode(err))
	assert.Equal(t, "product \"test\" not found", whatfits.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, whatfits.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, whatfits.EINTERNAL, whatfits.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, whatfits.ErrorMessage(nil))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", whatfits.ErrorMessage(errors.New("boom")))
}
