// Package grammar holds the section extractors for weekly market reports.
// Every extractor is a pure function over one page's text, words or tables.
// Lines, blocks and rows that do not match their expected shape are skipped;
// no extractor returns an error.
package grammar

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reInt          = regexp.MustCompile(`^-?\d+$`)
	reDecimal      = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	reCityCodeHead = regexp.MustCompile(`^[A-Za-z]{1,4}`)
)

// clean trims, strips thousands separators and reports whether the token is a
// placeholder that stands for "no value".
func clean(token string) (string, bool) {
	text := strings.ReplaceAll(strings.TrimSpace(token), ",", "")
	switch strings.ToLower(text) {
	case "", "-", "na", "n/a":
		return "", false
	}
	return text, true
}

// ToInt converts a report token to an integer. Only an optional minus sign
// followed by digits is accepted; anything else yields nil.
func ToInt(token string) *int64 {
	text, ok := clean(token)
	if !ok || !reInt.MatchString(text) {
		return nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ToFloat converts a report token to a float. Only plain decimal notation with
// an optional exponent is accepted; hex floats, NaN and infinities yield nil.
func ToFloat(token string) *float64 {
	text, ok := clean(token)
	if !ok || !reDecimal.MatchString(text) {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NormalizeCityCode keeps the leading run of up to four letters, upper-cased,
// so "OAK2" and "oak" both become "OAK". Codes without leading letters are
// only trimmed and upper-cased.
//
// Two distinct alias codes sharing a four-letter prefix collapse onto the same
// value; that is a known limitation of the report format.
func NormalizeCityCode(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	if m := reCityCodeHead.FindString(text); m != "" {
		return strings.ToUpper(m)
	}
	return strings.ToUpper(text)
}

func ptr[T any](v T) *T {
	return &v
}

// optional returns nil for an empty string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
