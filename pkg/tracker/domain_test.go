package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 0.83, RoundHours(50.0/60.0))
	assert.Equal(t, 2.25, RoundHours(2.25))
	assert.Equal(t, 9.0, RoundHours(9.004))
	assert.Equal(t, 0.0, RoundHours(0))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2", FormatHours(2))
	assert.Equal(t, "2.25", FormatHours(2.25))
	assert.Equal(t, "0.5", FormatHours(0.5))
	assert.Equal(t, "9", FormatHours(9.0))
}
