package database

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewID_VersionAndUniqueness(t *testing.T) {
	const n = 256
	seen := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		got, err := newID()
		if err != nil {
			t.Fatalf("newID() returned error: %v", err)
		}
		parsed, err := uuid.Parse(got)
		if err != nil {
			t.Fatalf("newID() returned unparsable id %q: %v", got, err)
		}
		if parsed.Version() != 4 || parsed.Variant() != uuid.RFC4122 {
			t.Fatalf("newID() returned %q with version %d, variant %v", got, parsed.Version(), parsed.Variant())
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("newID() returned duplicate id: %q", got)
		}
		seen[got] = struct{}{}
	}
}
