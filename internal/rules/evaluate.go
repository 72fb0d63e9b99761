// internal/rules/evaluate.go
package rules

import (
	"strings"
	"time"

	"github.com/charmkar/workflow/internal/types"
)

/*
 * Condition evaluation against a record pair.
 *
 * EvaluateCondition decides one atomic test given the current record and the
 * optional previous record. Evaluation is fail-closed and never errors: an
 * operator outside the catalogue, an unparseable date, or a non-numeric
 * relational comparison all resolve to false.
 *
 * Change detection compares string forms of coerced values. With no previous
 * record (creation events) the previous value reads as empty, so `changed`
 * degenerates to "current field is non-empty" - deliberate, and covered by a
 * regression test.
 *
 * Relative date arithmetic works in whole units at local time. For the
 * *_remaining operators the elapsed-vs-now difference only counts when the
 * date lies in the future; a past date has zero remaining.
 */

// EvaluateCondition evaluates one condition against the record pair.
func EvaluateCondition(cond types.Condition, current, previous types.Record) bool {
	return evaluateConditionAt(cond, current, previous, time.Now())
}

func evaluateConditionAt(cond types.Condition, current, previous types.Record, now time.Time) bool {
	raw := current[cond.Field]
	cv := Comparable(raw)
	ev := Comparable(cond.Value)

	switch cond.Operator {
	case types.OpEq:
		return compareEqual(cv, ev)
	case types.OpNeq:
		return !compareEqual(cv, ev)
	case types.OpContains:
		return compareContains(cv, ev)
	case types.OpNotContains:
		return !compareContains(cv, ev)
	case types.OpStartsWith:
		return comparePrefix(cv, ev)
	case types.OpEndsWith:
		return compareSuffix(cv, ev)
	case types.OpGt:
		cmp, ok := compareNumeric(cv, ev)
		return ok && cmp > 0
	case types.OpGte:
		cmp, ok := compareNumeric(cv, ev)
		return ok && cmp >= 0
	case types.OpLt:
		cmp, ok := compareNumeric(cv, ev)
		return ok && cmp < 0
	case types.OpLte:
		cmp, ok := compareNumeric(cv, ev)
		return ok && cmp <= 0
	case types.OpIn:
		return compareIn(cv, cond.Value)
	case types.OpNotIn:
		return !compareIn(cv, cond.Value)
	case types.OpIsTrue:
		return Truthy(raw)
	case types.OpIsFalse:
		return !Truthy(raw)
	case types.OpIsNull:
		return IsEmptyValue(raw)
	case types.OpNotNull:
		return !IsEmptyValue(raw)
	case types.OpChanged:
		pv := previousValue(previous, cond.Field)
		return ComparableString(cv) != ComparableString(pv)
	case types.OpChangedFrom:
		pv := previousValue(previous, cond.Field)
		return compareEqual(pv, ev) && ComparableString(cv) != ComparableString(pv)
	case types.OpChangedTo:
		pv := previousValue(previous, cond.Field)
		return compareEqual(cv, ev) && ComparableString(cv) != ComparableString(pv)
	case types.OpIsToday:
		return onCalendarDay(raw, now)
	case types.OpIsYesterday:
		return onCalendarDay(raw, now.AddDate(0, 0, -1))
	case types.OpIsTomorrow:
		return onCalendarDay(raw, now.AddDate(0, 0, 1))
	case types.OpDaysPassedGt:
		return elapsedCompare(raw, ev, now, 24*time.Hour, false, 1)
	case types.OpDaysPassedLt:
		return elapsedCompare(raw, ev, now, 24*time.Hour, false, -1)
	case types.OpDaysRemainingGt:
		return elapsedCompare(raw, ev, now, 24*time.Hour, true, 1)
	case types.OpDaysRemainingLt:
		return elapsedCompare(raw, ev, now, 24*time.Hour, true, -1)
	case types.OpHoursPassedGt:
		return elapsedCompare(raw, ev, now, time.Hour, false, 1)
	case types.OpHoursPassedLt:
		return elapsedCompare(raw, ev, now, time.Hour, false, -1)
	case types.OpHoursRemainingGt:
		return elapsedCompare(raw, ev, now, time.Hour, true, 1)
	case types.OpHoursRemainingLt:
		return elapsedCompare(raw, ev, now, time.Hour, true, -1)
	default:
		// Unrecognized operators fail closed.
		return false
	}
}

// previousValue reads a field from the previous record, which is nil for
// creation events. A nil map read yields nil, which stringifies to "".
func previousValue(previous types.Record, field string) any {
	if previous == nil {
		return nil
	}
	return Comparable(previous[field])
}

// onCalendarDay reports whether the value parses as a date falling on the
// same local calendar day as ref.
func onCalendarDay(v any, ref time.Time) bool {
	t, ok := parseTime(v)
	if !ok {
		return false
	}
	y1, m1, d1 := t.Local().Date()
	y2, m2, d2 := ref.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// elapsedCompare compares whole elapsed units between now and the field's
// date against the expected operand. remaining=true measures units until a
// future date (zero for past dates); dir is +1 for gt, -1 for lt.
func elapsedCompare(v, expected any, now time.Time, unit time.Duration, remaining bool, dir int) bool {
	t, ok := parseTime(v)
	if !ok {
		return false
	}
	n, ok := ToNumber(expected)
	if !ok {
		return false
	}

	diff := now.Sub(t)
	var units float64
	if remaining {
		if diff < 0 {
			units = float64(int64(-diff / unit))
		} else {
			units = 0
		}
	} else {
		units = float64(int64(diff / unit))
	}

	if dir > 0 {
		return units > n
	}
	return units < n
}

// timeLayouts are tried in order when parsing date-typed field values.
// Records serialize dates as strings; format varies by module and by how the
// value was entered.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// parseTime attempts to interpret a field value as a point in time.
// Strings are digit-normalized first so localized dates parse; numbers are
// taken as Unix seconds (milliseconds above a plausibility threshold).
func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := NormalizeDigits(strings.TrimSpace(t))
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64:
		return unixTime(int64(t)), true
	case int:
		return unixTime(int64(t)), true
	case int64:
		return unixTime(t), true
	default:
		return time.Time{}, false
	}
}

// unixTime treats values past 1e12 as milliseconds, otherwise seconds.
func unixTime(n int64) time.Time {
	if n > 1_000_000_000_000 {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}
