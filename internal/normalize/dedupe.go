package normalize

import "github.com/opus-software/opus/internal/models"

// Dedupe collapses items to one entry per id. Each id keeps the position of
// its first occurrence and the fields of its last. Items without an id are
// dropped.
func Dedupe[T models.Identifiable](items []T) []T {
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		id := item.EntityID()
		if id == "" {
			continue
		}
		if i, seen := index[id]; seen {
			out[i] = item
			continue
		}
		index[id] = len(out)
		out = append(out, item)
	}
	return out
}

// All normalizes every raw object with fn and deduplicates the result.
func All[T models.Identifiable](raws []Raw, fn func(Raw) T) []T {
	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		items = append(items, fn(raw))
	}
	return Dedupe(items)
}
