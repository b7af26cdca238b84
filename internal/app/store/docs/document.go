// internal/app/store/docs/document.go
package docs

import (
	"strconv"
	"strings"
	"time"
)

// Document is a schema-less record as it lives in the store: an arbitrary
// set of named fields. The document key is carried in the "_id" field.
//
// Historical imports mean field names and value types cannot be trusted;
// accessors coerce rather than assert.
type Document map[string]any

// ID returns the document key, or "" if the document has none.
func (d Document) ID() string {
	return d.Str("_id")
}

// Str returns the named field coerced to a string. Numeric values are
// formatted; anything else yields "".
func (d Document) Str(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// TrimStr returns Str with surrounding whitespace removed.
func (d Document) TrimStr(key string) string {
	return strings.TrimSpace(d.Str(key))
}

// Number returns the named field coerced to a float64. The second return
// reports whether the field held a usable numeric value; numeric strings
// count.
func (d Document) Number(key string) (float64, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Time returns the named field as a time.Time if it holds one.
func (d Document) Time(key string) (time.Time, bool) {
	if t, ok := d[key].(time.Time); ok {
		return t, true
	}
	return time.Time{}, false
}

// Clone returns a shallow copy. Patch builders work against a snapshot so
// copy-forward decisions never see partially-applied state.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Patch is a set of pending field changes for one document. A value of
// DeleteField removes the field; any other value sets it.
type Patch map[string]any

// deleteSentinel is unexported so DeleteField is the only instance.
type deleteSentinel struct{}

// DeleteField marks a field for removal. The store distinguishes "absent
// from the patch" (leave alone) from "explicitly remove".
var DeleteField = deleteSentinel{}

// IsDelete reports whether a patch value is the removal sentinel.
func IsDelete(v any) bool {
	_, ok := v.(deleteSentinel)
	return ok
}

// Empty reports whether the patch changes nothing once the fields named in
// ignore are excluded. The batch driver uses this to skip writes whose only
// content is a bookkeeping timestamp.
func (p Patch) Empty(ignore ...string) bool {
	for k := range p {
		skip := false
		for _, ig := range ignore {
			if k == ig {
				skip = true
				break
			}
		}
		if !skip {
			return false
		}
	}
	return true
}
