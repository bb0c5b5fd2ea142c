package types

import "testing"

func TestOrientationDegrees(t *testing.T) {
	cases := []struct {
		orientation Orientation
		want        float64
	}{
		{OrientationNorth, 0},
		{OrientationEast, 90},
		{OrientationSouth, 180},
		{OrientationWest, 270},
	}

	for _, tc := range cases {
		got, ok := tc.orientation.Degrees()
		if !ok {
			t.Errorf("%s: expected a known orientation", tc.orientation)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %v degrees, got %v", tc.orientation, tc.want, got)
		}
	}
}

func TestOrientationDegrees_Unknown(t *testing.T) {
	for _, bad := range []Orientation{"", "north", "NorthEast", "Up"} {
		if _, ok := bad.Degrees(); ok {
			t.Errorf("%q: expected unknown orientation to be rejected", bad)
		}
		if bad.Valid() {
			t.Errorf("%q: expected Valid() == false", bad)
		}
	}
}

func TestMonthIndex(t *testing.T) {
	months := Months()
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}

	for i, m := range months {
		idx, ok := m.Index()
		if !ok {
			t.Errorf("%s: expected a known month", m)
			continue
		}
		if idx != i+1 {
			t.Errorf("%s: expected index %d, got %d", m, i+1, idx)
		}
	}

	// Spot-check the calendar anchors.
	if idx, _ := MonthJan.Index(); idx != 1 {
		t.Errorf("Jan: expected 1, got %d", idx)
	}
	if idx, _ := MonthJul.Index(); idx != 7 {
		t.Errorf("Jul: expected 7, got %d", idx)
	}
	if idx, _ := MonthDec.Index(); idx != 12 {
		t.Errorf("Dec: expected 12, got %d", idx)
	}
}

func TestMonthIndex_Unknown(t *testing.T) {
	for _, bad := range []Month{"", "jan", "January", "Smarch"} {
		if _, ok := bad.Index(); ok {
			t.Errorf("%q: expected unknown month to be rejected", bad)
		}
	}
}

func TestComfortPrediction_Comfortable(t *testing.T) {
	cases := []struct {
		pmv  float64
		want bool
	}{
		{0, true},
		{-0.5, true},
		{0.5, true},
		{-0.51, false},
		{0.51, false},
		{2.3, false},
	}

	for _, tc := range cases {
		p := ComfortPrediction{PMV: tc.pmv, PPD: 10}
		if got := p.Comfortable(); got != tc.want {
			t.Errorf("pmv=%v: expected comfortable=%v, got %v", tc.pmv, tc.want, got)
		}
	}
}
