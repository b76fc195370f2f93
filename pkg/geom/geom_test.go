package geom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromVertices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		points  []Point
		want    Rect
		wantErr bool
	}{
		{
			name:   "axis aligned",
			points: []Point{{10, 20}, {30, 20}, {30, 50}, {10, 50}},
			want:   Rect{Left: 10, Top: 20, Width: 20, Height: 30},
		},
		{
			name:   "skewed quadrilateral uses bounding box",
			points: []Point{{12, 20}, {30, 18}, {33, 50}, {10, 52}},
			want:   Rect{Left: 10, Top: 18, Width: 23, Height: 34},
		},
		{
			name:    "triangle",
			points:  []Point{{0, 0}, {10, 0}, {5, 5}},
			wantErr: true,
		},
		{
			name:    "no vertices",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromVertices(tt.points)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPolygon) {
					t.Fatalf("FromVertices() error = %v, want ErrMalformedPolygon", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromVertices() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRectDerived(t *testing.T) {
	r := Rect{Left: 5, Top: 7, Width: 10, Height: 4}
	if r.Right() != 15 || r.Bottom() != 11 {
		t.Errorf("Right/Bottom = %d/%d, want 15/11", r.Right(), r.Bottom())
	}
	if r.Area() != 40 {
		t.Errorf("Area() = %d, want 40", r.Area())
	}
}

func TestEnclosesIsBoundaryInclusive(t *testing.T) {
	outer := NewRect(0, 0, 100, 50)

	if !outer.Encloses(outer) {
		t.Error("a rectangle should enclose itself")
	}
	if !outer.Encloses(NewRect(0, 10, 100, 20)) {
		t.Error("shared left and right edges should count as enclosed")
	}
	if outer.Encloses(NewRect(-1, 10, 50, 20)) {
		t.Error("rectangle crossing the left edge should not be enclosed")
	}
	if outer.Encloses(NewRect(10, 10, 50, 51)) {
		t.Error("rectangle crossing the bottom edge should not be enclosed")
	}
}

func TestExpandNeverShrinks(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	got := r.Expand([]Point{{12, 12}, {15, 15}})
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("Expand() with inner points changed rect (-want +got):\n%s", diff)
	}

	got = r.Expand([]Point{{5, 15}, {25, 30}})
	want := NewRect(5, 10, 25, 30)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}

	if got := r.Expand(nil); got != r {
		t.Errorf("Expand(nil) = %v, want %v", got, r)
	}
}

func TestUnion(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(20, 5, 30, 40)
	want := NewRect(0, 0, 30, 40)
	if got := a.Union(b); got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
	if got := b.Union(a); got != want {
		t.Errorf("Union() is not symmetric: %v", got)
	}
}
