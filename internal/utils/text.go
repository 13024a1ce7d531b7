package utils

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

// CleanText trims s and drops NUL bytes and invalid UTF-8 sequences, which
// postgres rejects in text columns.
func CleanText(s string) string {
	if strings.Contains(s, "\x00") || !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
		s = strings.ReplaceAll(s, "\x00", "")
	}
	return strings.TrimSpace(s)
}

// CleanOptional applies CleanText to an optional value. Blank input becomes nil.
func CleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := CleanText(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// CleanStruct applies CleanText in place to every exported string and *string
// field of the struct v points to.
func CleanStruct(v any) {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}
		switch {
		case field.Kind() == reflect.String:
			field.SetString(CleanText(field.String()))
		case field.Kind() == reflect.Pointer && !field.IsNil() && field.Elem().Kind() == reflect.String:
			field.Elem().SetString(CleanText(field.Elem().String()))
		}
	}
}
