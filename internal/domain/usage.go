package domain

import "time"

// UsageDateLayout is the calendar date format stored in DailyUsage.Date.
const UsageDateLayout = "2006-01-02"

type DailyUsage struct {
	Date  string `json:"date" firestore:"date" db:"date"`
	Count int    `json:"count" firestore:"count" db:"count"`
}

// UsageDate returns the calendar date of t in loc.
func UsageDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(UsageDateLayout)
}

func (u *DailyUsage) SameDay(today string) bool {
	return u != nil && u.Date == today
}

func (u *DailyUsage) LimitReached(today string, limit int) bool {
	return u.SameDay(today) && u.Count >= limit
}

// Next is the record to store after one more generation today.
func (u *DailyUsage) Next(today string) DailyUsage {
	if u.SameDay(today) {
		return DailyUsage{Date: today, Count: u.Count + 1}
	}
	return DailyUsage{Date: today, Count: 1}
}
