package viewer

import "testing"

func TestZoomClampConvergence(t *testing.T) {
	s := NewState(10, 1200)
	s.Scale = 0.7

	// Repeated large positive deltas converge on exactly MaxScale.
	for i := 0; i < 5; i++ {
		s.Zoom(10)
	}
	if s.Scale != MaxScale {
		t.Errorf("Expected scale pinned at %v, got %v", MaxScale, s.Scale)
	}

	// And large negative deltas converge on exactly MinScale.
	for i := 0; i < 5; i++ {
		s.Zoom(-10)
	}
	if s.Scale != MinScale {
		t.Errorf("Expected scale pinned at %v, got %v", MinScale, s.Scale)
	}
}

func TestZoomEntersFreeMode(t *testing.T) {
	s := NewState(3, 1200)
	if s.Fit != FitWidth {
		t.Fatalf("Expected wide viewport to default to FitWidth, got %v", s.Fit)
	}
	s.Zoom(0.2)
	if s.Fit != FitFree {
		t.Errorf("Expected zoom to enter FitFree, got %v", s.Fit)
	}
}

func TestChangePageClamps(t *testing.T) {
	s := NewState(10, 1200)

	s.ChangePage(-5)
	if s.Page != 1 {
		t.Errorf("Expected page clamped to 1, got %d", s.Page)
	}

	s.Page = 8
	s.ChangePage(5)
	if s.Page != 10 {
		t.Errorf("Expected page clamped to 10, got %d", s.Page)
	}
}

func TestJumpToPageRejectsInvalid(t *testing.T) {
	s := NewState(10, 1200)
	s.Page = 4

	for _, invalid := range []int{0, -1, 11, 1000} {
		if s.JumpToPage(invalid) {
			t.Errorf("Expected jump to %d to be rejected", invalid)
		}
		if s.Page != 4 {
			t.Errorf("Rejected jump must leave page unchanged, got %d", s.Page)
		}
	}

	if !s.JumpToPage(10) {
		t.Error("Expected in-range jump to be accepted")
	}
	if s.Page != 10 {
		t.Errorf("Expected page 10 after jump, got %d", s.Page)
	}
}

func TestToggleFitIsBinary(t *testing.T) {
	container := Size{Width: 1200, Height: 900}
	s := NewState(5, container.Width)
	s.Intrinsic = Size{Width: 612, Height: 792}

	s.ToggleFit(container)
	if s.Fit != FitPage {
		t.Errorf("Expected toggle from width to page, got %v", s.Fit)
	}
	s.ToggleFit(container)
	if s.Fit != FitWidth {
		t.Errorf("Expected toggle from page to width, got %v", s.Fit)
	}

	// Free zoom toggles back into the binary pair rather than being a
	// third toggle state.
	s.Zoom(0.3)
	s.ToggleFit(container)
	if s.Fit != FitPage {
		t.Errorf("Expected free zoom to toggle to FitPage, got %v", s.Fit)
	}
}

func TestApplyFitNoOpBeforeFirstRender(t *testing.T) {
	container := Size{Width: 800, Height: 600}
	s := NewState(5, container.Width)
	s.Scale = 1.0

	s.ApplyFit(container)
	if s.Scale != 1.0 {
		t.Errorf("Fit before intrinsic dimensions are known must not change scale, got %v", s.Scale)
	}
}

func TestSetIntrinsicResolvesPendingFit(t *testing.T) {
	container := Size{Width: 1224, Height: 900}
	s := NewState(5, container.Width)

	// Fit request before first paint is dropped...
	s.ApplyFit(container)
	if s.Scale != 1.0 {
		t.Fatalf("Expected no-op fit, got scale %v", s.Scale)
	}

	// ...and the page-load callback re-applies the active mode.
	s.SetIntrinsic(Size{Width: 612, Height: 792}, container)
	if s.Scale != 2.0 {
		t.Errorf("Expected fit-to-width scale 1224/612=2.0 after first render, got %v", s.Scale)
	}
}

func TestRotateKeepsScaleUntilFitReapplied(t *testing.T) {
	container := Size{Width: 800, Height: 600}
	s := NewState(5, container.Width)
	s.Intrinsic = Size{Width: 800, Height: 600}
	s.ApplyFit(container)
	before := s.Scale

	s.Rotate(90)
	if s.Scale != before {
		t.Errorf("Rotate alone must not change scale, got %v", s.Scale)
	}
	if s.Rotation != 90 {
		t.Errorf("Expected rotation 90, got %d", s.Rotation)
	}

	s.ApplyFit(container)
	// Rotated page is 600x800; fit-to-width gives 800/600.
	if !almostEqual(s.Scale, 800.0/600.0) {
		t.Errorf("Expected recomputed fit %v after rotation, got %v", 800.0/600.0, s.Scale)
	}

	s.Rotate(-180)
	if s.Rotation != 270 {
		t.Errorf("Expected rotation normalized to 270, got %d", s.Rotation)
	}
}

func TestHandleResizeHeuristic(t *testing.T) {
	s := NewState(5, 1200)
	s.Intrinsic = Size{Width: 612, Height: 792}
	s.Zoom(0.5)

	s.HandleResize(Size{Width: 400, Height: 700})
	if s.Fit != FitPage {
		t.Errorf("Expected narrow viewport to default to FitPage, got %v", s.Fit)
	}

	s.HandleResize(Size{Width: 1400, Height: 900})
	if s.Fit != FitWidth {
		t.Errorf("Expected wide viewport to default to FitWidth, got %v", s.Fit)
	}
}

func TestSideBySideNavigationAndFit(t *testing.T) {
	container := Size{Width: 1000, Height: 800}
	s := NewState(10, container.Width)
	s.Intrinsic = Size{Width: 492, Height: 700}

	s.ToggleSideBySide(container)
	if !s.SideBySide {
		t.Fatal("Expected side-by-side on")
	}
	if !almostEqual(s.Scale, 1.0) {
		t.Errorf("Expected per-page width (1000-16)/2=492 to fit 492-wide page at 1.0, got %v", s.Scale)
	}

	s.NextPage()
	if s.Page != 3 {
		t.Errorf("Expected side-by-side to advance two pages, got %d", s.Page)
	}
	s.PrevPage()
	if s.Page != 1 {
		t.Errorf("Expected side-by-side to go back two pages, got %d", s.Page)
	}
}

func TestResetDiscardsPreviousDocumentState(t *testing.T) {
	s := NewState(10, 1200)
	s.Page = 7
	s.Rotation = 180
	s.Zoom(0.5)
	s.Intrinsic = Size{Width: 612, Height: 792}

	s.Reset(3)
	if s.Page != 1 || s.TotalPages != 3 || s.Scale != 1.0 || s.Rotation != 0 {
		t.Errorf("Reset left stale state: %+v", s)
	}
	if !s.Intrinsic.IsZero() {
		t.Error("Reset must forget intrinsic dimensions of the previous document")
	}
}

func TestRenderedSize(t *testing.T) {
	s := NewState(5, 1200)
	if got := s.RenderedSize(); !got.IsZero() {
		t.Errorf("Expected zero rendered size before first render, got %+v", got)
	}

	s.Intrinsic = Size{Width: 600, Height: 800}
	s.Scale = 0.5
	if got := s.RenderedSize(); got.Width != 300 || got.Height != 400 {
		t.Errorf("Unexpected rendered size %+v", got)
	}

	s.Rotation = 90
	if got := s.RenderedSize(); got.Width != 400 || got.Height != 300 {
		t.Errorf("Expected rotation to swap rendered size, got %+v", got)
	}
}
