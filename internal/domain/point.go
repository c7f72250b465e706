package domain

import "time"

// MonthPoint is one city-month observation of arrivals and revenue.
type MonthPoint struct {
	City          string  `json:"city" bson:"city"`
	MonthIndex    int     `json:"month_index" bson:"month_index"`
	CalendarMonth int     `json:"calendar_month" bson:"calendar_month"`
	Year          int     `json:"year" bson:"year"`
	Arrivals      int     `json:"arrivals" bson:"arrivals"`
	Revenue       float64 `json:"revenue" bson:"revenue"`
}

// Date returns the first day of the point's calendar month in UTC.
func (p MonthPoint) Date() time.Time {
	return time.Date(p.Year, time.Month(p.CalendarMonth), 1, 0, 0, 0, 0, time.UTC)
}

// Label formats the point's month as "Jan 2024".
func (p MonthPoint) Label() string {
	return p.Date().Format("Jan 2006")
}

// PointFilter narrows a read-back of stored points. Zero fields match everything.
type PointFilter struct {
	City          string
	CalendarMonth int
	Year          int
}

// Match reports whether p satisfies the filter.
func (f PointFilter) Match(p MonthPoint) bool {
	if f.City != "" && f.City != p.City {
		return false
	}
	if f.CalendarMonth != 0 && f.CalendarMonth != p.CalendarMonth {
		return false
	}
	if f.Year != 0 && f.Year != p.Year {
		return false
	}
	return true
}
