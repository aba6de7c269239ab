package finance

import (
	"time"

	"github.com/Dan9191/finance-service/internal/models"
)

// Annual selects the whole-year aggregate instead of a specific month
const Annual = -1

// AddMonths advances d by n calendar months, clamping the day to the end of
// the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(d models.Date, n int) models.Date {
	total := d.Year()*12 + d.MonthIndex() + n
	year, month := total/12, total%12
	if month < 0 {
		month += 12
		year--
	}
	day := d.Day()
	if last := daysIn(year, time.Month(month+1)); day > last {
		day = last
	}
	return models.NewDate(year, time.Month(month+1), day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthsBetween returns the number of whole calendar months from (fromYear, fromMonth) to (year, month)
func monthsBetween(fromYear, fromMonth, year, month int) int {
	return (year*12 + month) - (fromYear*12 + fromMonth)
}
