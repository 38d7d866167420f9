package enums

import (
	"fmt"
	"strings"
)

// AnalyticsPeriod selects the lower bound of an analytics report.
type AnalyticsPeriod string

const (
	PeriodDaily   AnalyticsPeriod = "daily"
	PeriodWeekly  AnalyticsPeriod = "weekly"
	PeriodMonthly AnalyticsPeriod = "monthly"
	// PeriodAll applies no lower bound.
	PeriodAll AnalyticsPeriod = "all"
)

var validAnalyticsPeriods = []AnalyticsPeriod{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAll}

func (p AnalyticsPeriod) String() string {
	return string(p)
}

func (p AnalyticsPeriod) IsValid() bool {
	for _, candidate := range validAnalyticsPeriods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseAnalyticsPeriod maps an empty value to PeriodAll.
func ParseAnalyticsPeriod(value string) (AnalyticsPeriod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return PeriodAll, nil
	}
	for _, candidate := range validAnalyticsPeriods {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics period %q", value)
}
