package parser

import (
	"errors"
	"fmt"
	"strings"
)

var errNoSeparator = errors.New("missing field separator")

// ParseField splits a "key: value" line on the first separator. When line
// is the record delimiter it returns end=true and no field.
func ParseField(line, delimiter string) (key, value string, end bool, err error) {
	if line == delimiter {
		return "", "", true, nil
	}

	key, value, ok := strings.Cut(line, FieldSeparator)
	if !ok {
		return "", "", false, &FormatError{
			Value:    line,
			Expected: fmt.Sprintf("a field line formatted as `key%svalue`", FieldSeparator),
			Err:      errNoSeparator,
		}
	}
	return key, value, false, nil
}
