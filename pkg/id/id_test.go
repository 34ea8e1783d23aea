package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a := New("PAY")
	b := New("PAY")

	assert.Regexp(t, `^PAY_[0-9A-Z]{26}$`, a)
	assert.NotEqual(t, a, b)
}

func TestRequestID(t *testing.T) {
	_, err := uuid.Parse(RequestID())
	require.NoError(t, err)
}
