package viewer

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitScaleIdempotent(t *testing.T) {
	container := Size{Width: 1200, Height: 900}
	intrinsic := Size{Width: 612, Height: 792}

	first, ok := FitScale(container, intrinsic, 0, false, FitWidth)
	if !ok {
		t.Fatal("Expected fit scale to be computable")
	}
	second, ok := FitScale(container, intrinsic, 0, false, FitWidth)
	if !ok {
		t.Fatal("Expected fit scale to be computable on second call")
	}
	if first != second {
		t.Errorf("Fit scale not idempotent: %v != %v", first, second)
	}
}

func TestFitScaleRotationSwap(t *testing.T) {
	container := Size{Width: 800, Height: 600}

	rotated, ok := FitScale(container, Size{Width: 600, Height: 800}, 90, false, FitWidth)
	if !ok {
		t.Fatal("Expected rotated fit scale to be computable")
	}
	straight, ok := FitScale(container, Size{Width: 800, Height: 600}, 0, false, FitWidth)
	if !ok {
		t.Fatal("Expected unrotated fit scale to be computable")
	}
	if !almostEqual(rotated, straight) {
		t.Errorf("90 degree rotation with swapped intrinsic dims should match unrotated: %v != %v", rotated, straight)
	}
}

func TestFitScaleSideBySideWidthSplit(t *testing.T) {
	container := Size{Width: 1000, Height: 800}
	intrinsic := Size{Width: 492, Height: 700}

	// Available width per page is (1000-16)/2 = 492, so a 492-wide page
	// fits at exactly 1.0, not 500/492.
	scale, ok := FitScale(container, intrinsic, 0, true, FitWidth)
	if !ok {
		t.Fatal("Expected side-by-side fit scale to be computable")
	}
	if !almostEqual(scale, 1.0) {
		t.Errorf("Side-by-side available width should be (1000-16)/2=492, got scale %v", scale)
	}
}

func TestFitScaleFitPageUsesConstrainingAxis(t *testing.T) {
	tests := []struct {
		name      string
		container Size
		intrinsic Size
		want      float64
	}{
		{"height constrained", Size{1000, 500}, Size{500, 500}, 1.0},
		{"width constrained", Size{500, 1000}, Size{500, 500}, 1.0},
		{"tall page in wide viewport", Size{1200, 600}, Size{600, 1200}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FitScale(tt.container, tt.intrinsic, 0, false, FitPage)
			if !ok {
				t.Fatal("Expected fit scale to be computable")
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("FitScale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitScaleUnknownIntrinsicIsNoOp(t *testing.T) {
	container := Size{Width: 800, Height: 600}

	if _, ok := FitScale(container, Size{}, 0, false, FitWidth); ok {
		t.Error("Expected fit to be uncomputable before first render pass")
	}
	if _, ok := FitScale(container, Size{Width: -10, Height: 100}, 0, false, FitWidth); ok {
		t.Error("Expected fit to be uncomputable for negative dimensions")
	}
	if _, ok := FitScale(Size{}, Size{Width: 600, Height: 800}, 0, false, FitPage); ok {
		t.Error("Expected fit to be uncomputable for degenerate container")
	}
}

func TestFitScaleFreeModeIsNoOp(t *testing.T) {
	if _, ok := FitScale(Size{800, 600}, Size{600, 800}, 0, false, FitFree); ok {
		t.Error("FitFree must not produce a computed scale")
	}
}

func TestEffectiveDimensions(t *testing.T) {
	intrinsic := Size{Width: 600, Height: 800}

	tests := []struct {
		rotation int
		swapped  bool
	}{
		{0, false},
		{90, true},
		{180, false},
		{270, true},
		{360, false},
		{-90, true},
		{450, true},
		// Malformed rotations fall back to the conservative swap.
		{45, true},
		{135, true},
	}
	for _, tt := range tests {
		got := EffectiveDimensions(intrinsic, tt.rotation)
		want := intrinsic
		if tt.swapped {
			want = Size{Width: intrinsic.Height, Height: intrinsic.Width}
		}
		if got != want {
			t.Errorf("EffectiveDimensions(rotation=%d) = %+v, want %+v", tt.rotation, got, want)
		}
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0}, {90, 90}, {360, 0}, {450, 90}, {-90, 270}, {-360, 0}, {720, 0},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.in); got != tt.want {
			t.Errorf("NormalizeRotation(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampScale(t *testing.T) {
	if got := ClampScale(0.01); got != MinScale {
		t.Errorf("Expected clamp to MinScale, got %v", got)
	}
	if got := ClampScale(25); got != MaxScale {
		t.Errorf("Expected clamp to MaxScale, got %v", got)
	}
	if got := ClampScale(1.3); got != 1.3 {
		t.Errorf("Expected in-range scale unchanged, got %v", got)
	}
}
