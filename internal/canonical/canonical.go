// Package canonical re-serializes JSON text with sorted object keys.
package canonical

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/sokinpui/jsonsort.go/model"
)

// Result is the outcome of one Serialize call. Text is only meaningful
// when Success is true; Err explains a failure.
type Result struct {
	Success bool
	Text    string
	Err     error
}

// Serialize parses text as a single JSON value and writes it back with
// object keys in byte order at every depth and the given indentation.
// It never panics; any failure is reported through the Result.
func Serialize(text string, indent model.Indentation) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("internal panic: %v", r)}
		}
	}()

	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return Result{Err: fmt.Errorf("parse json: %w", err)}
	}

	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, encoderOptions(indent)...)
	if err := writeValue(enc, value); err != nil {
		return Result{Err: fmt.Errorf("write json: %w", err)}
	}

	return Result{Success: true, Text: strings.TrimSuffix(buf.String(), "\n")}
}

func encoderOptions(indent model.Indentation) []jsontext.Options {
	unit := indent.Unit()
	if unit == "" {
		return nil
	}
	return []jsontext.Options{
		// WithIndent implies a space after each colon in this jsontext version.
		jsontext.WithIndent(unit),
	}
}

// writeValue emits v token by token so that key order is decided here
// rather than by map iteration.
func writeValue(enc *jsontext.Encoder, v any) error {
	switch v := v.(type) {
	case nil:
		return enc.WriteToken(jsontext.Null)
	case bool:
		return enc.WriteToken(jsontext.Bool(v))
	case string:
		return enc.WriteToken(jsontext.String(v))
	case float64:
		if v == 0 {
			v = 0 // drop the sign of -0
		}
		return enc.WriteToken(jsontext.Float(v))
	case []any:
		if err := enc.WriteToken(jsontext.ArrayStart); err != nil {
			return err
		}
		for _, elem := range v {
			if err := writeValue(enc, elem); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ArrayEnd)
	case map[string]any:
		if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
			return err
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := enc.WriteToken(jsontext.String(k)); err != nil {
				return err
			}
			if err := writeValue(enc, v[k]); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ObjectEnd)
	default:
		return fmt.Errorf("unsupported value of type %T", v)
	}
}
