package entities

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func TestOrderTypeDisplay(t *testing.T) {
	assert.Equal(t, "Service", OrderTypeDisplay(OrderTypeService))
	assert.Equal(t, "Mixed", OrderTypeDisplay(OrderTypeMixed))

	// Unknown codes pass through as-is.
	assert.Equal(t, "warranty", OrderTypeDisplay("warranty"))
	assert.Equal(t, "", OrderTypeDisplay(""))
}

func TestOrderTypeChoices(t *testing.T) {
	choices := OrderTypeChoices()
	assert.Len(t, choices, 6)
	assert.Equal(t, [2]string{"service", "Service"}, choices[0])
	assert.Equal(t, [2]string{"mixed", "Mixed"}, choices[5])
}

func TestOrder_CompletionHours(t *testing.T) {
	started := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	o := Order{
		StartedAt:   null.TimeFrom(started),
		CompletedAt: null.TimeFrom(started.Add(11*time.Hour + 30*time.Minute)),
	}
	hours, ok := o.CompletionHours()
	assert.True(t, ok)
	assert.InDelta(t, 11.5, hours, 0.001)
}

func TestOrder_CompletionHours_MissingTimestamps(t *testing.T) {
	started := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	noStart := Order{CompletedAt: null.TimeFrom(started)}
	_, ok := noStart.CompletionHours()
	assert.False(t, ok)

	noEnd := Order{StartedAt: null.TimeFrom(started)}
	_, ok = noEnd.CompletionHours()
	assert.False(t, ok)
}
