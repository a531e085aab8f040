// Package validate checks request inputs against `validate` struct tags.
//
// Rules are comma-separated; parameterised rules take "=value":
//
//	required            not zero/empty (nil for pointers)
//	nullable            when empty, skip the field's other rules
//	alpha_num           letters and digits only
//	alpha_dash          letters, digits, hyphens, underscores
//	numeric             parses as a number
//	min=N / max=N       string length, slice length, or numeric value
//	gte=N / lte=N       numeric bounds
//	between=lo,hi       numeric value or string length, inclusive
//	in=a,b,c            one of the listed values
//	no_comma            no string (or slice element) contains a comma
//	confirmed           equals its "<name>_confirmation" partner
//
//	type registerInput struct {
//	    Username string `json:"username" validate:"required,alpha_num,between=3,30"`
//	    Password string `json:"password" validate:"required,min=8,confirmed"`
//	    Confirm  string `json:"password_confirmation"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// check reports a failure message for field, or "" when the value passes.
type check func(field, param string, v, parent reflect.Value) string

var rules map[string]check

func init() {
	rules = map[string]check{
		"required":   required,
		"alpha_num":  charClass("letters and numbers", func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }),
		"alpha_dash": charClass("letters, numbers, dashes, and underscores", func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' }),
		"numeric":    numeric,
		"no_comma":   noComma,
		"min":        minRule,
		"max":        maxRule,
		"gte":        bound(">=", func(f, n float64) bool { return f >= n }),
		"lte":        bound("<=", func(f, n float64) bool { return f <= n }),
		"between":    between,
		"in":         in,
		"confirmed":  confirmed,
	}
}

// multiValue rules take a comma-separated parameter.
var multiValue = map[string]bool{"in": true, "between": true}

// Struct validates the exported fields of v that carry a `validate` tag and
// returns field (json name) → first failure message.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("validate")
		if tag == "" {
			continue
		}
		name := jsonFieldName(rt.Field(i))
		value := rv.Field(i)
		list := splitRules(tag)

		if contains(list, "nullable") && isEmpty(value) {
			continue
		}
		for _, rule := range list {
			key, param, _ := strings.Cut(rule, "=")
			fn, ok := rules[key]
			if !ok {
				continue
			}
			if msg := fn(name, param, value, rv); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// ─── Rules ───────────────────────────────────────────────────────────────────

func required(field, _ string, v, _ reflect.Value) string {
	if isEmpty(v) {
		return fmt.Sprintf("The %s field is required.", field)
	}
	return ""
}

func charClass(desc string, ok func(rune) bool) check {
	return func(field, _ string, v, _ reflect.Value) string {
		for _, r := range text(v) {
			if !ok(r) {
				return fmt.Sprintf("The %s field may only contain %s.", field, desc)
			}
		}
		return ""
	}
}

func numeric(field, _ string, v, _ reflect.Value) string {
	if _, err := strconv.ParseFloat(text(v), 64); err != nil {
		return fmt.Sprintf("The %s field must be a number.", field)
	}
	return ""
}

func noComma(field, _ string, v, _ reflect.Value) string {
	if containsComma(v) {
		return fmt.Sprintf("The %s may not contain commas.", field)
	}
	return ""
}

func minRule(field, param string, v, _ reflect.Value) string {
	n := parseFloat(param)
	switch {
	case v.Kind() == reflect.Slice:
		if float64(v.Len()) < n {
			return fmt.Sprintf("The %s must have at least %s items.", field, param)
		}
	case isNumeric(v):
		if toFloat(v) < n {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
	default:
		if runeLen(v) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	}
	return ""
}

func maxRule(field, param string, v, _ reflect.Value) string {
	n := parseFloat(param)
	switch {
	case v.Kind() == reflect.Slice:
		if float64(v.Len()) > n {
			return fmt.Sprintf("The %s may not have more than %s items.", field, param)
		}
	case isNumeric(v):
		if toFloat(v) > n {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
	default:
		if runeLen(v) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	}
	return ""
}

func bound(op string, ok func(f, n float64) bool) check {
	return func(field, param string, v, _ reflect.Value) string {
		if !ok(toFloat(v), parseFloat(param)) {
			return fmt.Sprintf("The %s must be %s %s.", field, op, param)
		}
		return ""
	}
}

func between(field, param string, v, _ reflect.Value) string {
	lo, hi, ok := strings.Cut(param, ",")
	if !ok {
		return ""
	}
	l, h := parseFloat(lo), parseFloat(hi)
	if isNumeric(v) {
		if f := toFloat(v); f < l || f > h {
			return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
		}
		return ""
	}
	if n := runeLen(v); n < l || n > h {
		return fmt.Sprintf("The %s must be between %s and %s characters.", field, lo, hi)
	}
	return ""
}

func in(field, param string, v, _ reflect.Value) string {
	raw := text(v)
	for _, a := range strings.Split(param, ",") {
		if raw == strings.TrimSpace(a) {
			return ""
		}
	}
	return fmt.Sprintf("The selected %s is invalid.", field)
}

// confirmed pairs "password" with "password_confirmation", in either
// direction.
func confirmed(field, _ string, v, parent reflect.Value) string {
	const suffix = "_confirmation"
	partner := strings.TrimSuffix(field, suffix)
	if partner == field {
		partner = field + suffix
	}
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == partner && text(parent.Field(i)) == text(v) {
			return ""
		}
	}
	return fmt.Sprintf("The %s confirmation does not match.", field)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func text(v reflect.Value) string { return fmt.Sprintf("%v", v.Interface()) }

func runeLen(v reflect.Value) float64 { return float64(len([]rune(text(v)))) }

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return parseFloat(text(v))
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

// splitRules splits a tag on commas, keeping the parameter of in= and
// between= together: "required,in=a,b,max=9" → [required in=a,b max=9].
func splitRules(tag string) []string {
	var out []string
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if n := len(out); n > 0 && !startsRule(tok) {
			if key, _, _ := strings.Cut(out[n-1], "="); multiValue[key] {
				out[n-1] += "," + tok
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}

func startsRule(tok string) bool {
	key, _, _ := strings.Cut(tok, "=")
	_, ok := rules[key]
	return ok || key == "nullable"
}

func contains(list []string, target string) bool {
	for _, r := range list {
		if r == target {
			return true
		}
	}
	return false
}

func containsComma(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.Contains(v.String(), ",")
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if containsComma(v.Index(i)) {
				return true
			}
		}
	}
	return false
}
