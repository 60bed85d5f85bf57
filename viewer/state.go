package viewer

// State is the complete viewer state for one open document. It is created
// when a document is opened and thrown away when the document is closed or
// the underlying document reference changes; none of it is persisted.
type State struct {
	Page       int // 1-based
	TotalPages int
	Scale      float64
	Rotation   int // degrees, normalized to [0, 360)
	Fit        FitMode
	SideBySide bool
	View       ViewMode

	// Intrinsic is the native size of the current page, learned from the
	// first completed render pass. Zero until then, which makes every fit
	// computation a no-op.
	Intrinsic Size
}

// NewState returns the state for a freshly opened document. The initial fit
// mode follows the same width heuristic as HandleResize so that a narrow
// first paint starts on fit-to-page.
func NewState(totalPages int, containerWidth float64) *State {
	if totalPages < 1 {
		totalPages = 1
	}
	fit := FitWidth
	if containerWidth > 0 && containerWidth < NarrowViewportWidth {
		fit = FitPage
	}
	return &State{
		Page:       1,
		TotalPages: totalPages,
		Scale:      1.0,
		Fit:        fit,
		View:       ViewSingle,
	}
}

// Reset reinitializes the state for a new document reference, keeping
// nothing from the previous document.
func (s *State) Reset(totalPages int) {
	*s = State{Page: 1, TotalPages: totalPages, Scale: 1.0, Fit: FitWidth, View: ViewSingle}
	if s.TotalPages < 1 {
		s.TotalPages = 1
	}
}

// SetIntrinsic records the page's native dimensions after a render pass and
// re-applies the active fit mode, which also resolves any fit request that
// was dropped earlier because the dimensions were still unknown.
func (s *State) SetIntrinsic(intrinsic, container Size) {
	if intrinsic.IsZero() {
		return
	}
	s.Intrinsic = intrinsic
	s.ApplyFit(container)
}

// ApplyFit recomputes the scale for the current fit mode. A no-op when the
// mode is FitFree or the intrinsic dimensions are not yet known.
func (s *State) ApplyFit(container Size) {
	scale, ok := FitScale(container, s.Intrinsic, s.Rotation, s.SideBySide, s.Fit)
	if !ok {
		return
	}
	s.Scale = ClampScale(scale)
}

// ToggleFit flips between fit-to-page and fit-to-width. A free-zoomed viewer
// toggles back to fit-to-width first, so the toggle is always binary.
func (s *State) ToggleFit(container Size) {
	if s.Fit == FitPage {
		s.Fit = FitWidth
	} else {
		s.Fit = FitPage
	}
	s.ApplyFit(container)
}

// Zoom adjusts the scale by delta, clamped to [MinScale, MaxScale], and
// leaves any fit mode for free zoom.
func (s *State) Zoom(delta float64) {
	s.Scale = ClampScale(s.Scale + delta)
	s.Fit = FitFree
}

// Rotate turns the page by delta degrees. The scale is not recomputed here;
// callers with an active fit mode follow up with ApplyFit because rotation
// changes which axis constrains the page.
func (s *State) Rotate(delta int) {
	s.Rotation = NormalizeRotation(s.Rotation + delta)
}

// ChangePage moves by offset pages, clamping silently at both ends.
func (s *State) ChangePage(offset int) {
	s.Page += offset
	if s.Page < 1 {
		s.Page = 1
	}
	if s.Page > s.TotalPages {
		s.Page = s.TotalPages
	}
}

// NextPage advances one page (or two in side-by-side view).
func (s *State) NextPage() {
	if s.SideBySide {
		s.ChangePage(2)
		return
	}
	s.ChangePage(1)
}

// PrevPage goes back one page (or two in side-by-side view).
func (s *State) PrevPage() {
	if s.SideBySide {
		s.ChangePage(-2)
		return
	}
	s.ChangePage(-1)
}

// JumpToPage moves to an absolute page number. Out-of-range requests are
// rejected and leave the current page unchanged; the return reports whether
// the jump happened.
func (s *State) JumpToPage(page int) bool {
	if page < 1 || page > s.TotalPages {
		return false
	}
	s.Page = page
	return true
}

// ToggleSideBySide switches the two-page spread on or off and recomputes the
// fit, since the available width per page halves or doubles.
func (s *State) ToggleSideBySide(container Size) {
	s.SideBySide = !s.SideBySide
	s.ApplyFit(container)
}

// HandleResize reacts to a container size change: the scale resets to 1.0
// and the fit mode falls back to a width-appropriate default before the fit
// is recomputed.
func (s *State) HandleResize(container Size) {
	s.Scale = 1.0
	if container.Width > 0 && container.Width < NarrowViewportWidth {
		s.Fit = FitPage
	} else {
		s.Fit = FitWidth
	}
	s.ApplyFit(container)
}

// RenderedSize returns the on-screen size of the current page at the current
// scale and rotation, or a zero Size before the first render pass.
func (s *State) RenderedSize() Size {
	if s.Intrinsic.IsZero() {
		return Size{}
	}
	page := EffectiveDimensions(s.Intrinsic, s.Rotation)
	return Size{Width: page.Width * s.Scale, Height: page.Height * s.Scale}
}
