// Package viewer holds the page/zoom/rotation state for the document viewer
// and computes the render scale for fit-to-width and fit-to-page display.
// It performs no I/O; callers feed it container and page dimensions and read
// back the scale to request the next render pass at.
package viewer

// Scale bounds for free zoom and clamped fit results.
const (
	MinScale = 0.1
	MaxScale = 2.0
)

// SideBySideGap is the horizontal gap in device pixels between the two pages
// of a side-by-side spread.
const SideBySideGap = 16

// NarrowViewportWidth is the container width below which a resize defaults
// the viewer to fit-to-page instead of fit-to-width.
const NarrowViewportWidth = 768

// FitMode selects how the render scale is chosen.
type FitMode int

const (
	// FitWidth fills the available width; height may overflow and scroll.
	FitWidth FitMode = iota
	// FitPage fits the whole page inside the viewport in both dimensions.
	FitPage
	// FitFree means the user zoomed manually and the scale is arbitrary.
	FitFree
)

// ViewMode selects between one page at a time and a continuous scroll.
type ViewMode int

const (
	ViewSingle ViewMode = iota
	ViewContinuous
)

// Size is a width/height pair in device pixels (or intrinsic page units
// before any scale is applied).
type Size struct {
	Width  float64
	Height float64
}

// IsZero reports whether the size is unusable for layout computation.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// NormalizeRotation reduces a rotation in degrees to [0, 360).
func NormalizeRotation(degrees int) int {
	r := degrees % 360
	if r < 0 {
		r += 360
	}
	return r
}

// EffectiveDimensions returns the intrinsic page size as it occupies the
// viewport under the given rotation. Any rotation that is not a multiple of
// 180 swaps the axes; this deliberately treats malformed rotation values as
// quarter turns rather than failing.
func EffectiveDimensions(intrinsic Size, rotationDegrees int) Size {
	if NormalizeRotation(rotationDegrees)%180 != 0 {
		return Size{Width: intrinsic.Height, Height: intrinsic.Width}
	}
	return intrinsic
}

// FitScale computes the unclamped scale that satisfies mode for a page of
// the given intrinsic size inside container. The second return is false when
// the scale cannot be computed: intrinsic dimensions are unknown (no render
// pass has completed yet), the container is degenerate, or mode is FitFree.
func FitScale(container, intrinsic Size, rotationDegrees int, sideBySide bool, mode FitMode) (float64, bool) {
	if container.IsZero() || intrinsic.IsZero() {
		return 0, false
	}
	if mode != FitWidth && mode != FitPage {
		return 0, false
	}

	page := EffectiveDimensions(intrinsic, rotationDegrees)

	availableWidth := container.Width
	if sideBySide {
		const pagesShown = 2
		availableWidth = (container.Width - SideBySideGap*(pagesShown-1)) / pagesShown
	}
	if availableWidth <= 0 {
		return 0, false
	}

	widthScale := availableWidth / page.Width
	if mode == FitWidth {
		return widthScale, true
	}

	heightScale := container.Height / page.Height
	if heightScale < widthScale {
		return heightScale, true
	}
	return widthScale, true
}

// ClampScale restricts a scale to the supported zoom range.
func ClampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
