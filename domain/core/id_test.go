package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseAnalysisID(t *testing.T) {
	id := NewAnalysisID()
	parsed, err := ParseAnalysisID(id.String())
	if err != nil {
		t.Fatalf("ParseAnalysisID(%q) failed: %v", id, err)
	}
	if parsed != id {
		t.Errorf("Expected %s, got %s", id, parsed)
	}

	for _, bad := range []string{"", "   ", "not-a-uuid"} {
		if _, err := ParseAnalysisID(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestComputeDatasetHash_OrderIndependent(t *testing.T) {
	header := []string{"brand", "price"}
	a := ComputeDatasetHash(header, []string{"A|100", "B|200", "C|300"})
	b := ComputeDatasetHash(header, []string{"C|300", "A|100", "B|200"})
	if a != b {
		t.Errorf("Expected permutation to keep hash, got %s vs %s", a, b)
	}

	c := ComputeDatasetHash(header, []string{"A|100", "B|200"})
	if a == c {
		t.Error("Expected different rows to change hash")
	}
}

func TestColumnNotFoundErrorNamesColumn(t *testing.T) {
	err := NewColumnNotFoundError("price")
	if !IsColumnNotFound(err) {
		t.Fatal("Expected errors.Is to match ErrColumnNotFound")
	}
	if got := err.Error(); got != "column not found: column 'price' not found" {
		t.Errorf("Unexpected message: %s", got)
	}
	if !IsInputError(err) {
		t.Error("Expected column errors to classify as input errors")
	}
}
