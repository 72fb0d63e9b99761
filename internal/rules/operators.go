// internal/rules/operators.go
package rules

import (
	"strings"

	"github.com/charmkar/workflow/internal/types"
)

/*
 * Operator catalogue and comparison primitives.
 *
 * The catalogue is fixed: every operator the rule editor can emit maps here
 * to its operand requirement and the field-type categories it may be used
 * with. The categories are advisory at runtime - the editing surface enforces
 * them when a rule is authored - but the catalogue keeps the set enumerable
 * and lets load-time validation reject operators that fall outside it.
 *
 * Comparison semantics:
 *   - Equality and change detection compare the string form of coerced values.
 *   - Substring, prefix and suffix tests are case-insensitive.
 *   - Relational operators compare numbers; a value that cannot be numbered
 *     fails the comparison (fail-closed, no error).
 *
 * An operator missing from the catalogue evaluates to false everywhere.
 */

// FieldCategory is the semantic type class of a module field, as declared by
// the module schema the rule was authored against.
type FieldCategory string

const (
	CategoryText    FieldCategory = "text"
	CategoryNumber  FieldCategory = "number"
	CategoryBoolean FieldCategory = "boolean"
	CategoryChoice  FieldCategory = "choice"
	CategoryDate    FieldCategory = "date"
)

// OperatorSpec describes one catalogue entry.
type OperatorSpec struct {
	// NeedsOperand is true when the operator compares against a stored value.
	NeedsOperand bool
	// Categories lists the field-type classes the rule editor offers this
	// operator for.
	Categories []FieldCategory
}

var allCategories = []FieldCategory{CategoryText, CategoryNumber, CategoryBoolean, CategoryChoice, CategoryDate}

// Catalog maps every recognized operator to its spec.
var Catalog = map[types.Operator]OperatorSpec{
	types.OpEq:          {NeedsOperand: true, Categories: allCategories},
	types.OpNeq:         {NeedsOperand: true, Categories: allCategories},
	types.OpContains:    {NeedsOperand: true, Categories: []FieldCategory{CategoryText}},
	types.OpNotContains: {NeedsOperand: true, Categories: []FieldCategory{CategoryText}},
	types.OpStartsWith:  {NeedsOperand: true, Categories: []FieldCategory{CategoryText}},
	types.OpEndsWith:    {NeedsOperand: true, Categories: []FieldCategory{CategoryText}},
	types.OpGt:          {NeedsOperand: true, Categories: []FieldCategory{CategoryNumber}},
	types.OpGte:         {NeedsOperand: true, Categories: []FieldCategory{CategoryNumber}},
	types.OpLt:          {NeedsOperand: true, Categories: []FieldCategory{CategoryNumber}},
	types.OpLte:         {NeedsOperand: true, Categories: []FieldCategory{CategoryNumber}},
	types.OpIn:          {NeedsOperand: true, Categories: []FieldCategory{CategoryText, CategoryChoice, CategoryNumber}},
	types.OpNotIn:       {NeedsOperand: true, Categories: []FieldCategory{CategoryText, CategoryChoice, CategoryNumber}},
	types.OpIsTrue:      {Categories: []FieldCategory{CategoryBoolean}},
	types.OpIsFalse:     {Categories: []FieldCategory{CategoryBoolean}},
	types.OpIsNull:      {Categories: allCategories},
	types.OpNotNull:     {Categories: allCategories},
	types.OpChanged:     {Categories: allCategories},
	types.OpChangedFrom: {NeedsOperand: true, Categories: allCategories},
	types.OpChangedTo:   {NeedsOperand: true, Categories: allCategories},

	types.OpIsToday:     {Categories: []FieldCategory{CategoryDate}},
	types.OpIsYesterday: {Categories: []FieldCategory{CategoryDate}},
	types.OpIsTomorrow:  {Categories: []FieldCategory{CategoryDate}},

	types.OpDaysPassedGt:    {NeedsOperand: true, Categories: []FieldCategory{CategoryDate}},
	types.OpDaysPassedLt:    {NeedsOperand: true, Categories: []FieldCategory{CategoryDate}},
	types.OpDaysRemainingGt: {NeedsOperand: true, Categories: []FieldCategory{CategoryDate}},
	types.OpDaysRemainingLt: {NeedsOperand: true, Categories: []FieldCategory{CategoryDate}},

	types.OpHoursPassedGt:    {NeedsOperand: true, Categories: []FieldCategory{CategoryDate}},
	types.OpHoursPassedLt:    {NeedsOperand: true, Categories: []FieldCategory{CategoryDate}},
	types.OpHoursRemainingGt: {NeedsOperand: true, Categories: []FieldCategory{CategoryDate}},
	types.OpHoursRemainingLt: {NeedsOperand: true, Categories: []FieldCategory{CategoryDate}},
}

// KnownOperator reports whether op is part of the catalogue.
func KnownOperator(op types.Operator) bool {
	_, ok := Catalog[op]
	return ok
}

// compareEqual performs string-form equality of two coerced values.
// Numbers and numeric strings meet in the middle ("25" equals 25).
func compareEqual(a, b any) bool {
	return ComparableString(a) == ComparableString(b)
}

// compareNumeric performs a three-way numeric comparison.
// ok is false when either side cannot be numbered.
func compareNumeric(a, b any) (cmp int, ok bool) {
	na, oka := ToNumber(a)
	nb, okb := ToNumber(b)
	if !oka || !okb {
		return 0, false
	}
	switch {
	case na < nb:
		return -1, true
	case na > nb:
		return 1, true
	default:
		return 0, true
	}
}

// compareContains is a case-insensitive substring test on string forms.
func compareContains(value, sub any) bool {
	return strings.Contains(foldString(value), foldString(sub))
}

// comparePrefix is a case-insensitive prefix test on string forms.
func comparePrefix(value, prefix any) bool {
	return strings.HasPrefix(foldString(value), foldString(prefix))
}

// compareSuffix is a case-insensitive suffix test on string forms.
func compareSuffix(value, suffix any) bool {
	return strings.HasSuffix(foldString(value), foldString(suffix))
}

// compareIn checks membership of value in the coerced list form of set.
func compareIn(value, set any) bool {
	for _, elem := range ExpectedList(set) {
		if compareEqual(value, elem) {
			return true
		}
	}
	return false
}

func foldString(v any) string {
	return strings.ToLower(ComparableString(v))
}
