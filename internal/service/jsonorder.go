package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

var errNotObject = errors.New("expected a JSON object")

// objectKeys returns the keys of a JSON object in the order they appear in the document
func objectKeys(raw json.RawMessage) ([]string, error) {
	var keys []string
	err := walkObject(raw, func(key string, dec *json.Decoder) error {
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
		keys = append(keys, key)
		return nil
	})
	return keys, err
}

// orderedStringValues returns the values of a JSON object of strings in document order
func orderedStringValues(raw json.RawMessage) ([]string, error) {
	var values []string
	err := walkObject(raw, func(key string, dec *json.Decoder) error {
		var v string
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

func walkObject(raw json.RawMessage, visit func(key string, dec *json.Decoder) error) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return errNotObject
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		if err := visit(key, dec); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

// orderPageIDs applies the page enumeration rule used to pick a search result:
// keys that are canonical non-negative integers (array indices) come first in
// ascending numeric order, every other key (e.g. the "-1" missing-page
// sentinel) follows in document order.
func orderPageIDs(keys []string) []string {
	type indexKey struct {
		n   uint64
		key string
	}

	var indices []indexKey
	var others []string
	for _, k := range keys {
		if n, ok := arrayIndex(k); ok {
			indices = append(indices, indexKey{n: n, key: k})
			continue
		}
		others = append(others, k)
	}

	sort.SliceStable(indices, func(i, j int) bool { return indices[i].n < indices[j].n })

	ordered := make([]string, 0, len(keys))
	for _, ik := range indices {
		ordered = append(ordered, ik.key)
	}
	return append(ordered, others...)
}

func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	// "007" parses but is not a canonical index
	if strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}
