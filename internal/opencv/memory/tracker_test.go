package memory

import "testing"

func TestTrackerAccounting(t *testing.T) {
	tr := NewTracker(nil)

	tr.TrackAllocation(1, 100, "source")
	tr.TrackAllocation(2, 50, "gray")
	tr.TrackDeallocation(1, "source")

	s := tr.Stats()
	if s.Allocations != 2 || s.Deallocations != 1 {
		t.Errorf("counts = %d/%d, want 2/1", s.Allocations, s.Deallocations)
	}
	if s.UsedBytes != 50 || s.Active != 1 {
		t.Errorf("used %d bytes in %d Mats, want 50 in 1", s.UsedBytes, s.Active)
	}

	// Unknown ids only count.
	tr.TrackDeallocation(9, "stray")
	if s := tr.Stats(); s.UsedBytes != 50 || s.Deallocations != 2 {
		t.Errorf("stray release changed accounting: %+v", s)
	}

	tr.Report(5)
}
