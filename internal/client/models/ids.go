package models

import (
	"slices"
	"time"
)

// containsID reports whether id is in ids.
func containsID(ids []string, id string) bool {
	return slices.Contains(ids, id)
}

// withID returns a copy of ids with id appended, unless already present.
func withID(ids []string, id string) []string {
	out := slices.Clone(ids)
	if containsID(out, id) {
		return out
	}
	return append(out, id)
}

// withoutID returns a copy of ids with every occurrence of id dropped.
func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// orEmpty keeps list attributes encoded as [] rather than null.
func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
