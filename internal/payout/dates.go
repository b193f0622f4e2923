package payout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Запасные форматы для дат в свободной записи.
var extraLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02.01.2006",
	"2006/01/02",
}

// NormalizeDate приводит дату к каноническому виду M/D/YYYY.
// Для записи через косую черту разобранные компоненты должны совпасть
// с исходными: 2/30/2025 отклоняется, а не перетекает в март.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)

	if m := slashDateRe.FindStringSubmatch(raw); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return "", false
		}

		return FormatDate(t), true
	}

	if isoDateRe.MatchString(raw) {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return "", false
		}

		return FormatDate(t), true
	}

	for _, layout := range extraLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return FormatDate(t), true
		}
	}

	return "", false
}

// FormatDate возвращает дату в каноническом виде M/D/YYYY.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// ParseAmount разбирает сумму: целое положительное число.
func ParseAmount(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
