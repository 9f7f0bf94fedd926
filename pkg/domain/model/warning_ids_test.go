// 指示: miu200521358
package model

import "testing"

func TestWarningIDsAreNonEmptyAndUnique(t *testing.T) {
	if WarningIKDegenerate != "WarningIKDegenerate" {
		t.Fatalf("warning id mismatch: got=%s want=%s", WarningIKDegenerate, "WarningIKDegenerate")
	}

	seen := map[string]struct{}{}
	for _, warningID := range WarningIDs() {
		if warningID == "" {
			t.Fatalf("warning id should not be empty")
		}
		if _, exists := seen[warningID]; exists {
			t.Fatalf("warning id should be unique: %s", warningID)
		}
		seen[warningID] = struct{}{}
	}
	if len(seen) != 6 {
		t.Fatalf("warning id count mismatch: got=%d want=%d", len(seen), 6)
	}
}
