package strategy

import "testing"

/*
-----------------------------------------------------------------------
Test 1 – The window is bounded and evicts oldest-first.
-----------------------------------------------------------------------
*/
func TestPriceWindow_Eviction(t *testing.T) {
	w := newPriceWindow(3, []float64{1, 2, 3})
	w.Add(4)

	if w.Len() != 3 {
		t.Fatalf("expected window length 3, got %d", w.Len())
	}
	values := w.Values()
	if values[0] != 2 || values[2] != 4 {
		t.Fatalf("expected oldest entry evicted, got %v", values)
	}
	if w.Support() != 2 || w.Resistance() != 4 {
		t.Fatalf("bounds not updated after eviction: support %v resistance %v", w.Support(), w.Resistance())
	}
}

/*
-----------------------------------------------------------------------
Test 2 – An oversized seed keeps only the newest entries.
-----------------------------------------------------------------------
*/
func TestPriceWindow_OversizedSeed(t *testing.T) {
	w := newPriceWindow(5, ramp(0, 1, 20))
	if w.Len() != 5 {
		t.Fatalf("expected window length 5, got %d", w.Len())
	}
	if w.Support() != 15 || w.Resistance() != 19 {
		t.Fatalf("expected newest five entries kept, got %v", w.Values())
	}
}

/*
-----------------------------------------------------------------------
Test 3 – Values hands out a copy, not the backing slice.
-----------------------------------------------------------------------
*/
func TestPriceWindow_ValuesIsCopy(t *testing.T) {
	w := newPriceWindow(3, []float64{1, 2, 3})
	values := w.Values()
	values[0] = 99
	if w.Support() != 1 {
		t.Fatalf("mutating the returned slice leaked into the window: %v", w.Values())
	}
}
