package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TableTarget identifies one table to scrape on the investigations page
type TableTarget struct {
	Name     string // human-readable label, unique within a run
	Selector string // CSS selector resolving to at most one table element
}

// Record is one extracted table row as an ordered header->value mapping.
// Column order is preserved; setting a duplicate header overwrites the
// earlier value in place (last write wins).
type Record struct {
	fields []field
}

type field struct {
	Key   string
	Value string
}

// Set inserts or overwrites the value for a header
func (r *Record) Set(key, value string) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, field{Key: key, Value: value})
}

// Get returns the value for a header and whether it is present
func (r *Record) Get(key string) (string, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Keys returns the headers in insertion order
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of headers in the record
func (r *Record) Len() int {
	return len(r.fields)
}

// MarshalJSON emits a JSON object with keys in insertion order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a record preserving the document's key order
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	r.fields = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record key must be a string, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		value, ok := valTok.(string)
		if !ok {
			return fmt.Errorf("record value for %q must be a string, got %v", key, valTok)
		}
		r.Set(key, value)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// TableResult is the extraction outcome for a single target.
// It is always produced, possibly with zero records, and never
// mutated after creation.
type TableResult struct {
	Name    string   `json:"tableName"`
	Records []Record `json:"data"`
}

// IsEmpty reports whether the result holds no records
func (t TableResult) IsEmpty() bool {
	return len(t.Records) == 0
}

// ScrapeReport is the aggregate of non-empty table results, in target order.
// This is the unit handed to persistence.
type ScrapeReport []TableResult
