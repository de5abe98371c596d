package core

import "testing"

func TestPlaneAxesAndNormals(t *testing.T) {
	tests := []struct {
		plane  PlaneID
		axis   Axis
		normal Vector
	}{
		{Top, AxisY, NewPoint(0, -1, 0)},
		{Bottom, AxisY, NewPoint(0, 1, 0)},
		{Left, AxisX, NewPoint(1, 0, 0)},
		{Right, AxisX, NewPoint(-1, 0, 0)},
		{Far, AxisZ, NewPoint(0, 0, 1)},
		{Near, AxisZ, NewPoint(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.plane.String(), func(t *testing.T) {
			if tt.plane.Axis() != tt.axis {
				t.Errorf("expected axis %v, got %v", tt.axis, tt.plane.Axis())
			}
			if tt.plane.Normal() != tt.normal {
				t.Errorf("expected normal %v, got %v", tt.normal, tt.plane.Normal())
			}
			if n := tt.plane.Normal(); n.Len() != 1 {
				t.Errorf("normal should be unit length, got %v", n.Len())
			}
		})
	}
}

func TestObstacleNamesRoundTrip(t *testing.T) {
	for i := 0; i < SphereCount; i++ {
		id := SphereID(i)
		got, ok := SphereByName(id.String())
		if !ok || got != id {
			t.Errorf("sphere %d: lookup of %q failed", i, id.String())
		}
	}
	for i := 0; i < PlaneCount; i++ {
		id := PlaneID(i)
		got, ok := PlaneByName(id.String())
		if !ok || got != id {
			t.Errorf("plane %d: lookup of %q failed", i, id.String())
		}
	}
	if _, ok := PlaneByName("ceiling"); ok {
		t.Error("unknown plane name should not resolve")
	}
	if got := SphereObstacle(Ball).String(); got != "sphere:ball" {
		t.Errorf("unexpected obstacle name %q", got)
	}
}
