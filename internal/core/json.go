package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Record is a loosely-typed application object decoded from JSON.
type Record map[string]any

// ParseJSON decodes import JSON into records.
//
// Two top-level shapes are accepted: a bare array of application-like objects,
// or an object with an "applications" array (the backup document). Array
// elements that are not objects decode to empty records, which normalization
// later drops.
//
// Returns an error wrapping ErrInvalidFormat for any other shape, for
// malformed JSON or for data following the top-level value.
func ParseJSON(r io.Reader) ([]Record, error) {
	data, err := readImport(r, "json")
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("%w: parse json: %v", ErrInvalidFormat, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after json value", ErrInvalidFormat)
	}

	var items []any
	switch v := top.(type) {
	case []any:
		items = v
	case map[string]any:
		apps, ok := v["applications"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: json object has no applications array", ErrInvalidFormat)
		}
		items = apps
	default:
		return nil, fmt.Errorf("%w: json must be an array or an object with applications", ErrInvalidFormat)
	}

	records := make([]Record, len(items))
	for i, item := range items {
		obj, _ := item.(map[string]any)
		records[i] = Record(obj)
	}
	return records, nil
}

// canonical resolves the record's keys onto canonical field names.
// For each field the first matching alias (in FieldSpec order) wins.
func (r Record) canonical() map[string]string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lowered := make(map[string]any, len(r))
	for _, k := range keys {
		lk := strings.ToLower(CleanCell(k))
		if _, seen := lowered[lk]; !seen {
			lowered[lk] = r[k]
		}
	}

	fields := make(map[string]string, len(FieldSpecs))
	for _, spec := range FieldSpecs {
		for _, alias := range spec.Aliases {
			if v, ok := lowered[alias]; ok {
				fields[spec.Name] = stringify(v)
				break
			}
		}
	}
	return fields
}

// stringify renders a JSON scalar as text. Nulls, objects and arrays become "".
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
