package models

import "time"

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Periods lists the accepted report keywords in display order.
var Periods = []Period{PeriodToday, PeriodWeek, PeriodMonth}

func (p Period) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Bucket is one slot (day, ISO week or month) of the chart series.
type Bucket struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Nutrients
}

// Report is recomputed from the log on every request and never stored.
type Report struct {
	UserID string    `json:"user_id"`
	Period Period    `json:"period"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`

	// Totals cover From..To only; Buckets cover the wider chart window.
	Totals  Nutrients `json:"totals"`
	Buckets []Bucket  `json:"buckets"`

	UserRows   int `json:"user_rows"`   // usable rows of this user, any date
	PeriodRows int `json:"period_rows"` // rows inside From..To
}

func (r *Report) Empty() bool { return r.PeriodRows == 0 }
