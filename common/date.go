package common

import (
	"time"
)

// ISOWeek 返回指定时间对应的 ISO 年份与周数
// 游戏回合按 (year, week_number) 排序与寻址，周数统一使用 ISO-8601 规则
func ISOWeek(t time.Time) (year, week int) {
	return t.UTC().ISOWeek()
}

// WeekOrdinal 将 (year, week) 折叠为可比较的序数，便于排序与范围比较
// 例如 2025 年第 1 周 -> 202501
func WeekOrdinal(year, week int) int {
	return year*100 + week
}

// WeekAtOrAfter 判断 (year, week) 是否不早于 (fromYear, fromWeek)
func WeekAtOrAfter(year, week, fromYear, fromWeek int) bool {
	if year != fromYear {
		return year > fromYear
	}
	return week >= fromWeek
}

// WeekStart 返回 ISO 周的周一 00:00:00 UTC
func WeekStart(year, week int) time.Time {
	// ISO-8601: 1月4日总是落在当年第一周
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	firstMonday := jan4.AddDate(0, 0, -(weekday - 1))
	return firstMonday.AddDate(0, 0, (week-1)*7)
}

// NextWeek 返回 (year, week) 的下一个 ISO 周
func NextWeek(year, week int) (int, int) {
	next := WeekStart(year, week).AddDate(0, 0, 7)
	return next.UTC().ISOWeek()
}
