package app

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Nights is ceil(|checkOut - checkIn|) in days. The absolute difference means a
// checkout before check-in still counts forward.
func Nights(checkIn, checkOut string) int {
	in, ok1 := parseDate(checkIn)
	out, ok2 := parseDate(checkOut)
	if !ok1 || !ok2 {
		return 0
	}
	d := out.Sub(in)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}

// ParsePrice keeps only digits and the decimal point, so "2,500MZN" reads as 2500.
func ParsePrice(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// CalculateTotal returns nightly price times whole nights, or 0 when either date is empty.
func CalculateTotal(checkIn, checkOut, nightlyPriceText string) float64 {
	n := Nights(checkIn, checkOut)
	if n == 0 {
		return 0
	}
	return float64(n) * ParsePrice(nightlyPriceText)
}

// FormatPrice renders 2500 as "2,500 MZN", a form ParsePrice reads back.
func FormatPrice(v float64) string {
	whole := int64(math.Round(v))
	neg := whole < 0
	if neg {
		whole = -whole
	}
	s := strconv.FormatInt(whole, 10)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out) + " MZN"
	}
	return string(out) + " MZN"
}
