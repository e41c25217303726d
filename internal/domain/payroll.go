package domain

import (
	"math"
	"time"
)

// DefaultHourlyRate is applied when a salary is created without one.
const DefaultHourlyRate = 17.20

// Pay is the computed breakdown of a salary.
type Pay struct {
	Bonuses    float64
	Deductions float64
	NetPay     float64
}

// ComputePay derives bonuses, deductions and net pay from a basic pay and
// the bonus and deduction percentages.
func ComputePay(basic, bonusPercent, deductionPercent float64) (Pay, error) {
	if basic < 0 {
		return Pay{}, Invalid("basic pay must not be negative")
	}
	if bonusPercent < 0 || bonusPercent > 100 || deductionPercent < 0 || deductionPercent > 100 {
		return Pay{}, Invalid("bonus and deduction percentages must be between 0 and 100")
	}
	bonuses := round2(basic * bonusPercent / 100)
	deductions := round2(basic * deductionPercent / 100)
	return Pay{
		Bonuses:    bonuses,
		Deductions: deductions,
		NetPay:     round2(basic + bonuses - deductions),
	}, nil
}

// Apply stores the computed pay on the salary.
func (s *Salary) Apply(p Pay) {
	s.Bonuses = p.Bonuses
	s.Deductions = p.Deductions
	s.NetPay = p.NetPay
}

// WorkHours returns the hours between check-in and check-out rounded to two
// decimals. A check-out before check-in is treated as an overnight shift.
func WorkHours(in, out time.Time) float64 {
	d := out.Sub(in)
	if d < 0 {
		d += 24 * time.Hour
	}
	return round2(d.Hours())
}

// Day truncates t to midnight UTC, the key attendance rows are stored under.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
