package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ID identifies a record. New IDs are time-ordered UUIDs; documents
// exported by the browser version carry numeric IDs, which decode as
// their decimal string.
type ID string

func (id ID) String() string { return string(id) }

// MinShortLen is the shortest prefix ShortIDs hands out.
const MinShortLen = 8

// ShortIDs maps every id to its shortest prefix of at least MinShortLen
// characters that no other id in ids shares. Time-ordered ids share
// long leading runs, so the prefix grows past the minimum as needed.
func ShortIDs(ids []ID) map[ID]string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = strings.ToLower(string(id))
	}
	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })

	out := make(map[ID]string, len(ids))
	for pos, i := range order {
		n := MinShortLen
		if pos > 0 {
			n = max(n, commonPrefix(keys[i], keys[order[pos-1]])+1)
		}
		if pos < len(order)-1 {
			n = max(n, commonPrefix(keys[i], keys[order[pos+1]])+1)
		}
		id := ids[i]
		out[id] = string(id[:min(n, len(id))])
	}
	return out
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// HasPrefix reports whether id starts with prefix (case-insensitive).
func (id ID) HasPrefix(prefix string) bool {
	return prefix != "" && strings.HasPrefix(strings.ToLower(string(id)), strings.ToLower(prefix))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}
