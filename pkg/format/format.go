// Package format holds the display helpers used by property transforms.
package format

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Int renders n with thousands separators.
func Int(n int64) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(n))
}

// Float renders f with thousands separators and at most decimals fraction
// digits. Trailing zeros in the fraction are dropped.
func Float(f float64, decimals int) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(f, number.MaxFractionDigits(decimals)))
}

// Signed renders f like Float with an explicit sign.
func Signed(f float64, decimals int) string {
	s := Float(f, decimals)
	if f > 0 {
		return "+" + s
	}
	return s
}

// Duration renders seconds as days, hours, minutes and seconds, skipping zero
// components, e.g. "1d 2h 5s".
func Duration(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}
	d := time.Duration(seconds) * time.Second
	units := []struct {
		size   time.Duration
		suffix string
	}{
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}
	var parts []string
	for _, u := range units {
		if n := d / u.size; n > 0 {
			parts = append(parts, strconv.FormatInt(int64(n), 10)+u.suffix)
			d -= n * u.size
		}
	}
	return strings.Join(parts, " ")
}

// Title converts upstream enum values like "WeaponRoom" or "ATTACK_DRONE" to
// title-cased words.
func Title(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && isUpper(r) && isLower(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.English).String(strings.Join(strings.Fields(b.String()), " "))
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
