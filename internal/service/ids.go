package service

import (
	"fmt"
	"time"
)

// nextSeqID formats prefix-NNN starting at n and increments until the id is
// not taken. Deleting a record can make len+1 collide with a live id.
func nextSeqID(prefix string, n int, taken func(string) bool) string {
	for {
		id := fmt.Sprintf("%s-%03d", prefix, n)
		if !taken(id) {
			return id
		}
		n++
	}
}

// nextMillisID formats prefix-{epoch millis}, bumping the millis value while
// the id is taken (two commits in the same millisecond).
func nextMillisID(prefix string, now time.Time, taken func(string) bool) string {
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("%s-%d", prefix, ms)
		if !taken(id) {
			return id
		}
		ms++
	}
}

func idSet[T any](items []T, id func(*T) string) func(string) bool {
	set := make(map[string]struct{}, len(items))
	for i := range items {
		set[id(&items[i])] = struct{}{}
	}
	return func(s string) bool {
		_, ok := set[s]
		return ok
	}
}
