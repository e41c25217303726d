package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePay(t *testing.T) {
	p, err := ComputePay(5000, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.Bonuses)
	assert.Equal(t, 250.0, p.Deductions)
	assert.Equal(t, 5250.0, p.NetPay)

	p, err = ComputePay(1234.56, 7.5, 3.3)
	require.NoError(t, err)
	assert.Equal(t, 92.59, p.Bonuses)
	assert.Equal(t, 40.74, p.Deductions)
	assert.Equal(t, 1286.41, p.NetPay)
}

func TestComputePayRejectsBadInput(t *testing.T) {
	_, err := ComputePay(-1, 0, 0)
	assert.True(t, IsValidation(err))
	_, err = ComputePay(100, 0, 120)
	assert.True(t, IsValidation(err))
	_, err = ComputePay(100, 150, 0)
	assert.True(t, IsValidation(err))
	_, err = ComputePay(100, -1, 0)
	assert.True(t, IsValidation(err))

	p, err := ComputePay(100, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.NetPay)
}

func TestWorkHours(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 8.5, WorkHours(in, in.Add(8*time.Hour+30*time.Minute)))
	assert.Equal(t, 0.33, WorkHours(in, in.Add(20*time.Minute)))

	night := time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC)
	morning := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 8.0, WorkHours(night, morning))
}

func TestDay(t *testing.T) {
	ts := time.Date(2026, 3, 2, 17, 45, 3, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Day(ts))
}
