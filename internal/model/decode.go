package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNoData    = errors.New("no data")
	ErrNotList   = errors.New("expected a list of tasks")
	ErrNotObject = errors.New("expected a task object")
)

// DecodeBody resolves a payload that may arrive either as a JSON value or as
// a JSON string holding the encoded value. It reports false when neither
// form yields valid JSON.
func DecodeBody(raw json.RawMessage) (json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	if raw[0] != '"' {
		if !json.Valid(raw) {
			return nil, false
		}
		return raw, true
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, false
	}
	decoded := bytes.TrimSpace([]byte(inner))
	if len(decoded) == 0 || !json.Valid(decoded) {
		return nil, false
	}
	return decoded, true
}

// DecodeTasks decodes a listing. The list itself and each element may be
// stringified. Elements that cannot be decoded are skipped; the valid ones
// are returned together with a KindDecode error describing the skips.
func DecodeTasks(raw json.RawMessage) ([]Task, error) {
	body, ok := DecodeBody(raw)
	if !ok {
		return []Task{}, E(KindDecode, "decode tasks", ErrNoData)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return []Task{}, E(KindDecode, "decode tasks", fmt.Errorf("%w: %v", ErrNotList, err))
	}

	tasks := make([]Task, 0, len(elems))
	var errs []error
	for i, elem := range elems {
		t, err := DecodeTask(elem)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", i+1, err))
			continue
		}
		tasks = append(tasks, t)
	}
	if len(errs) > 0 {
		return tasks, E(KindDecode, "decode tasks", errors.Join(errs...))
	}
	return tasks, nil
}

// DecodeTask decodes one record given as an object or a stringified object.
// Missing fields keep their zero value and scalar fields of the wrong type
// are coerced where a reading is obvious.
func DecodeTask(raw json.RawMessage) (Task, error) {
	body, ok := DecodeBody(raw)
	if !ok {
		return Task{}, fmt.Errorf("cannot parse %s", truncate(string(raw), 60))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return Task{}, ErrNotObject
	}

	return Task{
		ID:          stringField(fields["id"]),
		Description: stringField(fields["description"]),
		DueTime:     stringField(fields["due_time"]),
		DueDate:     stringField(fields["due_date"]),
		Completed:   boolField(fields["completed"]),
		CreatedAt:   stringField(fields["created_at"]),
	}, nil
}

func stringField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func boolField(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return err == nil && b
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ScalarString reads a raw JSON scalar as text; absent or null is "".
func ScalarString(raw json.RawMessage) string {
	v, ok := scalar(raw)
	if !ok {
		return ""
	}
	return stringField(v)
}

// ScalarBool reads a raw JSON scalar as a flag; absent or unreadable is false.
func ScalarBool(raw json.RawMessage) bool {
	v, ok := scalar(raw)
	if !ok {
		return false
	}
	return boolField(v)
}

func scalar(raw json.RawMessage) (any, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}
