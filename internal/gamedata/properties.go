package gamedata

import (
	"strings"

	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
	"github.com/PieInTheSky-Inc/yadc/pkg/format"
)

func name[C any](s string) details.DisplayName[C] {
	return details.Literal[C](s)
}

// fieldProperty shows a record field as is.
func fieldProperty[C any](label, field string) *details.Property[C] {
	return details.MustProperty(details.PropertyConfig[C]{
		Name:       name[C](label),
		ForceName:  true,
		OmitIfNone: true,
		Field:      field,
	})
}

// valueProperty shows a record field without a label.
func valueProperty[C any](field string) *details.Property[C] {
	return details.MustProperty(details.PropertyConfig[C]{Field: field})
}

func transformProperty[C any](label, field string, fn func(details.Input[C]) string) *details.Property[C] {
	return details.MustProperty(details.PropertyConfig[C]{
		Name:       name[C](label),
		ForceName:  true,
		OmitIfNone: true,
		Field:      field,
		Transform:  details.Sync(fn),
	})
}

// numberProperty shows an integer field with thousands separators and an
// optional unit parameter.
func numberProperty[C any](label, field, unit string) *details.Property[C] {
	p := details.MustProperty(details.PropertyConfig[C]{
		Name:       name[C](label),
		ForceName:  true,
		OmitIfNone: true,
		Field:      field,
		Params:     map[string]string{"unit": unit},
		Transform: details.Sync(func(in details.Input[C]) string {
			n, ok := entity.LookupInt(in.Record, field)
			if !ok || n == 0 {
				return ""
			}
			return withUnit(format.Int(int64(n)), in.Param("unit"))
		}),
	})
	return p
}

func durationProperty[C any](label, field string) *details.Property[C] {
	return transformProperty(label, field, func(in details.Input[C]) string {
		n, ok := entity.LookupInt(in.Record, field)
		if !ok || n <= 0 {
			return ""
		}
		return format.Duration(int64(n))
	})
}

// enumProperty title-cases an upstream enum value.
func enumProperty[C any](label, field string) *details.Property[C] {
	return transformProperty(label, field, func(in details.Input[C]) string {
		return format.Title(in.FieldString())
	})
}

// absent never has a value. Use it where a granularity shows nothing.
func absent[C any]() *details.Property[C] {
	return details.MustProperty(details.PropertyConfig[C]{})
}

func withUnit(value, unit string) string {
	if unit == "" {
		return value
	}
	return value + " " + unit
}

// parseAmount splits upstream "kind:amount" strings such as "starbux:50".
func parseAmount(s string) (kind, amount string, ok bool) {
	kind, amount, ok = strings.Cut(s, ":")
	if !ok || entity.IsAbsent(amount) {
		return "", "", false
	}
	return strings.TrimSpace(kind), strings.TrimSpace(amount), true
}

// nameOf returns the display name of id in table, or "" when unknown.
func nameOf(table entity.Table, id, nameField string) string {
	if entity.IsAbsent(id) {
		return ""
	}
	return entity.LookupString(table[id], nameField)
}
