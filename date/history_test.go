package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[0], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[1], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[0], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[1], v2)
	}

}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2020, 1, 2), 100)
	h.Append(New(2020, 1, 6), 101)

	testCases := []struct {
		name      string
		day       Date
		want      float64
		wantFound bool
	}{
		{"before any data", New(2020, 1, 1), 0, false},
		{"exact match", New(2020, 1, 2), 100, true},
		{"gap forward-fills", New(2020, 1, 4), 100, true},
		{"latest point", New(2020, 1, 6), 101, true},
		{"after latest", New(2020, 2, 1), 101, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := h.ValueAsOf(tc.day)
			if found != tc.wantFound || got != tc.want {
				t.Errorf("ValueAsOf(%v) = (%v, %v) want (%v, %v)", tc.day, got, found, tc.want, tc.wantFound)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2020, 1, 2), 1)
	h.Append(New(2020, 1, 3), 2)
	h.Append(New(2020, 1, 6), 3)

	h.Truncate(New(2020, 1, 3))
	if h.Len() != 2 {
		t.Fatalf("Truncate() left %d points, want 2", h.Len())
	}
	if _, ok := h.Get(New(2020, 1, 6)); ok {
		t.Errorf("Truncate() kept a point after the cutoff")
	}
}

func TestMapValues(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2020, 1, 2), 10)
	h.Append(New(2020, 1, 3), 20)
	h.Append(New(2020, 1, 6), 30)

	h.MapValues(New(2020, 1, 3), func(v float64) float64 { return v + 5 })

	if v, _ := h.Get(New(2020, 1, 2)); v != 10 {
		t.Errorf("point before cutoff changed: got %v want 10", v)
	}
	if v, _ := h.Get(New(2020, 1, 3)); v != 25 {
		t.Errorf("point at cutoff: got %v want 25", v)
	}
	if v, _ := h.Get(New(2020, 1, 6)); v != 35 {
		t.Errorf("point after cutoff: got %v want 35", v)
	}
}
