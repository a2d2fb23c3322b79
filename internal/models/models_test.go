package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusReceived, StatusPreparing, StatusCompleted, StatusOutOfStock} {
		assert.True(t, ValidStatus(s), s)
	}
	for _, s := range []string{"", "BOGUS", "received", "DONE"} {
		assert.False(t, ValidStatus(s), s)
	}
}
