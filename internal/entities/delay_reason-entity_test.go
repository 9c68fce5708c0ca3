package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryDisplay(t *testing.T) {
	assert.Equal(t, "Mechanical Issues", CategoryDisplay("mechanical"))
	assert.Equal(t, "Logistics & Transport", CategoryDisplay("logistics"))
	assert.Equal(t, "Parts Availability", CategoryDisplay("parts"))
	assert.Equal(t, "Staffing Shortage", CategoryDisplay("staffing"))
	assert.Equal(t, "Customer Related", CategoryDisplay("customer"))
	assert.Equal(t, "External Factors", CategoryDisplay("external"))
	assert.Equal(t, "Other", CategoryDisplay("other"))
}

func TestCategoryDisplay_UnknownCodePassesThrough(t *testing.T) {
	assert.Equal(t, "weather", CategoryDisplay("weather"))
	assert.Equal(t, "", CategoryDisplay(""))
}
