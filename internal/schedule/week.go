// AngelaMos | 2026
// week.go

package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format the scheduling API uses for week
// starts.
const DateLayout = "2006-01-02"

// Monday normalizes any date to the Monday of its week, at midnight
// UTC. Sunday belongs to the week that started the previous Monday.
func Monday(t time.Time) time.Time {
	t = t.UTC()
	day := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -day)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDisplayDate renders the short day/month form the calendar
// header shows.
func FormatDisplayDate(t time.Time) string {
	return t.Format("02/01")
}

// IsPastWeek reports whether a week start precedes the current
// real-world week's Monday. Past weeks are read-only.
func IsPastWeek(weekStart, now time.Time) bool {
	return weekStart.Before(Monday(now))
}

// ValidateShiftTimes enforces the one invariant this layer owns: a
// shift must end strictly after it starts. Times are HH:MM strings,
// so lexical comparison is chronological comparison.
func ValidateShiftTimes(startTime, endTime string) string {
	if startTime == "" || endTime == "" {
		return "Informe os horários de início e fim"
	}

	if endTime <= startTime {
		return "O horário de fim deve ser depois do horário de início"
	}

	return ""
}

// DayColumn is one calendar column; the grid runs Monday through
// Sunday even though day keys are Sunday-based (0-6).
type DayColumn struct {
	Key   int
	Label string
}

var WeekColumns = []DayColumn{
	{Key: 1, Label: "Segunda"},
	{Key: 2, Label: "Terça"},
	{Key: 3, Label: "Quarta"},
	{Key: 4, Label: "Quinta"},
	{Key: 5, Label: "Sexta"},
	{Key: 6, Label: "Sábado"},
	{Key: 0, Label: "Domingo"},
}

var dayShortNames = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

func DayShortName(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return dayShortNames[day]
}

// FormatWorkDays joins weekday numbers into the roster's short label
// form, e.g. "Seg, Ter, Qua".
func FormatWorkDays(days []int) string {
	labels := make([]string, 0, len(days))
	for _, d := range days {
		if name := DayShortName(d); name != "" {
			labels = append(labels, name)
		}
	}
	return strings.Join(labels, ", ")
}
