// Package tags extracts bracket-delimited command tags from narrative text and decodes them
// into typed commands.
//
// A tag has the form [COMMAND: key="value", key2=123, key3=true]. Attribute values may be
// double-quoted, single-quoted or bare. Bare values are coerced to numbers when numeric and
// to booleans when they read "true" or "false"; everything else stays a string.
package tags

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	tagPattern  = regexp.MustCompile(`\[([^\]]+)\]`)
	attrPattern = regexp.MustCompile(`(\w+)=("([^"]*)"|'([^']*)'|([^,\]]+))`)
)

// ValueKind is the coerced type of an attribute value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
)

// Value is a single attribute value.
type Value struct {
	kind ValueKind
	text string
	num  float64
	b    bool
}

// StringValue wraps s without coercion.
func StringValue(s string) Value { return Value{kind: KindString, text: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n, text: strconv.FormatFloat(n, 'f', -1, 64)}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b, text: strconv.FormatBool(b)} }

// coerce applies the bare-token rules.
func coerce(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StringValue(s)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return NumberValue(n)
	}
	switch strings.ToLower(s) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	return StringValue(s)
}

// Kind returns the coerced type.
func (v Value) Kind() ValueKind { return v.kind }

// String returns the value as written (numbers and booleans in canonical form).
func (v Value) String() string { return v.text }

// Float returns the numeric value. Strings holding a number convert as well.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Int returns the numeric value truncated toward zero.
func (v Value) Int() (int, bool) {
	n, ok := v.Float()
	if !ok {
		return 0, false
	}
	return int(n), true
}

// Bool returns the boolean value. Strings reading "true"/"false" convert as well.
func (v Value) Bool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.text)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// Attr is one key=value pair in source order.
type Attr struct {
	Key   string
	Value Value
}

// Tag is a single raw command tag.
type Tag struct {
	// Name is the upper-cased command name.
	Name string
	// Body is everything after the first colon, untrimmed of quotes.
	Body  string
	Attrs []Attr
	// Raw is the tag including its brackets.
	Raw string
}

// Lookup returns the last value written for key.
func (t Tag) Lookup(key string) (Value, bool) {
	for i := len(t.Attrs) - 1; i >= 0; i-- {
		if t.Attrs[i].Key == key {
			return t.Attrs[i].Value, true
		}
	}
	return Value{}, false
}

// String returns the attribute as text, or "" when absent.
func (t Tag) String(key string) string {
	v, ok := t.Lookup(key)
	if !ok {
		return ""
	}
	return v.String()
}

// Int returns the attribute as an integer.
func (t Tag) Int(key string) (int, bool) {
	v, ok := t.Lookup(key)
	if !ok {
		return 0, false
	}
	return v.Int()
}

// IntOr returns the attribute as an integer or def when absent or non-numeric.
func (t Tag) IntOr(key string, def int) int {
	if n, ok := t.Int(key); ok {
		return n
	}
	return def
}

// Bool returns the attribute as a boolean.
func (t Tag) Bool(key string) (bool, bool) {
	v, ok := t.Lookup(key)
	if !ok {
		return false, false
	}
	return v.Bool()
}

// Parse scans text for tags in order of appearance. Text outside brackets is ignored.
func Parse(text string) []Tag {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	out := make([]Tag, 0, len(matches))
	for _, m := range matches {
		out = append(out, parseTag(m[0], m[1]))
	}
	return out
}

func parseTag(raw, content string) Tag {
	name, body, _ := strings.Cut(content, ":")
	t := Tag{
		Name: strings.ToUpper(strings.TrimSpace(name)),
		Body: strings.TrimLeft(body, " \t"),
		Raw:  raw,
	}
	if t.Name == string(KindPersonalityDefined) {
		return t
	}
	t.Attrs = parseAttrs(t.Body)
	return t
}

func parseAttrs(s string) []Attr {
	var attrs []Attr
	for _, m := range attrPattern.FindAllStringSubmatch(s, -1) {
		var v Value
		switch {
		case strings.HasPrefix(m[2], `"`):
			v = StringValue(m[3])
		case strings.HasPrefix(m[2], `'`):
			v = StringValue(m[4])
		default:
			v = coerce(m[5])
		}
		attrs = append(attrs, Attr{Key: m[1], Value: v})
	}
	return attrs
}

// Strip removes every tag from text and trims the result.
func Strip(text string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(text, ""))
}

// Extract returns every tag in text, joined by newlines, in order of appearance.
func Extract(text string) string {
	return strings.Join(tagPattern.FindAllString(text, -1), "\n")
}
