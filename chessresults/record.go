/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chessresults

// TournamentURLField is the field every parsed record is tagged with.
const TournamentURLField = "tournament_url"

// URLSuffix is appended to a column label to name the link target field
// produced by link-aware extraction.
const URLSuffix = "_url"

// Record is one extracted table row. Fields keep the order in which they
// were first set. A field may hold text (possibly empty) or be absent,
// which is what a row shorter than its header produces.
type Record struct {
	keys   []string
	values map[string]*string
}

// Set stores value under key.
func (r *Record) Set(key string, value string) {
	r.put(key, &value)
}

// SetAbsent marks key as present in the record but without a value.
func (r *Record) SetAbsent(key string) {
	r.put(key, nil)
}

func (r *Record) put(key string, value *string) {
	if r.values == nil {
		r.values = make(map[string]*string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the text stored under key. ok is false when the key is
// missing or absent.
func (r Record) Get(key string) (value string, ok bool) {
	v := r.values[key]
	if v == nil {
		return "", false
	}
	return *v, true
}

// Has reports whether key was set, with or without a value.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// IsAbsent reports whether key was set with SetAbsent.
func (r Record) IsAbsent(key string) bool {
	v, ok := r.values[key]
	return ok && v == nil
}

// Keys returns the field names in insertion order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Record) Len() int {
	return len(r.keys)
}

// Blank reports whether every field is absent or empty.
func (r Record) Blank() bool {
	for _, v := range r.values {
		if v != nil && *v != "" {
			return false
		}
	}
	return true
}

// UnionKeys returns every field name used by records in first-seen order.
func UnionKeys(records []Record) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, k := range rec.keys {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
