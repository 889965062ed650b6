package requests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotGrid(t *testing.T) {
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	grid := SlotGrid(day)

	require.Len(t, grid, 20)
	assert.Equal(t, "08:00", grid[0].Format("15:04"))
	assert.Equal(t, "08:30", grid[1].Format("15:04"))
	assert.Equal(t, "17:30", grid[len(grid)-1].Format("15:04"))

	for _, slot := range grid {
		assert.True(t, OnSlotGrid(slot), "generated slot %s not accepted by OnSlotGrid", slot)
	}
}

func TestOnSlotGrid(t *testing.T) {
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, OnSlotGrid(day.Add(8*time.Hour)))
	assert.True(t, OnSlotGrid(day.Add(17*time.Hour+30*time.Minute)))

	// Outside working hours.
	assert.False(t, OnSlotGrid(day.Add(7*time.Hour+30*time.Minute)))
	assert.False(t, OnSlotGrid(day.Add(18*time.Hour)))

	// Off the half-hour grid.
	assert.False(t, OnSlotGrid(day.Add(9*time.Hour+15*time.Minute)))
	assert.False(t, OnSlotGrid(day.Add(9*time.Hour+10*time.Second)))
}
