package webapp

import (
	"testing"

	"github.com/calverton/docshare/viewer"
)

// TestViewerPageRenderStates tests that different states produce valid UI
// Note: Full HTML validation is done in the browser integration test
func TestViewerPageRenderStates(t *testing.T) {
	t.Run("Loading state returns valid UI", func(t *testing.T) {
		page := &ViewerPage{loading: true}
		if page.Render() == nil {
			t.Error("Loading state should return non-nil UI")
		}
	})

	t.Run("Error state returns valid UI", func(t *testing.T) {
		page := &ViewerPage{error: "Network error"}
		if page.Render() == nil {
			t.Error("Error state should return non-nil UI")
		}
	})

	t.Run("Loaded state returns valid UI", func(t *testing.T) {
		page := &ViewerPage{
			DocumentULID: "01HZZZZZZZZZZZZZZZZZZZZZZZ",
			document: Document{
				Name:       "report.pdf",
				PageCount:  4,
				PageWidth:  612,
				PageHeight: 792,
			},
			state: viewer.NewState(4, 1024),
		}
		if page.Render() == nil {
			t.Error("Loaded state should return non-nil UI")
		}
	})
}

// TestViewerPageNavigation tests page navigation through the state
func TestViewerPageNavigation(t *testing.T) {
	page := &ViewerPage{state: viewer.NewState(5, 1024)}

	page.state.NextPage()
	page.state.NextPage()
	if page.state.Page != 3 {
		t.Errorf("Expected page 3, got %d", page.state.Page)
	}

	page.state.PrevPage()
	if page.state.Page != 2 {
		t.Errorf("Expected page 2, got %d", page.state.Page)
	}

	if page.state.JumpToPage(99) {
		t.Error("Jump beyond the last page should be rejected")
	}
	if page.state.Page != 2 {
		t.Errorf("Rejected jump should not move the page, got %d", page.state.Page)
	}
}

// TestViewerPageSeedsStateFromViewport tests that the server-computed
// viewport drives the initial viewer state
func TestViewerPageSeedsStateFromViewport(t *testing.T) {
	container := viewer.Size{Width: 1224, Height: 900}
	page := &ViewerPage{}

	page.seedState(Viewport{TotalPages: 8, PageWidth: 612, PageHeight: 792}, container)
	if page.state == nil {
		t.Fatal("Expected a seeded state")
	}
	if page.state.TotalPages != 8 || page.state.Page != 1 {
		t.Errorf("Unexpected page state: %d/%d", page.state.Page, page.state.TotalPages)
	}
	if page.state.Scale != 2.0 {
		t.Errorf("Expected fit-to-width scale 2.0, got %v", page.state.Scale)
	}

	// Narrow containers open in fit-to-page.
	narrow := viewer.Size{Width: 400, Height: 700}
	page.seedState(Viewport{TotalPages: 8, PageWidth: 612, PageHeight: 792}, narrow)
	if page.state.Fit != viewer.FitPage {
		t.Errorf("Expected fit-to-page on a narrow container, got %v", page.state.Fit)
	}

	// A viewport without intrinsic dimensions still yields a usable state.
	page.document = Document{PageCount: 3}
	page.seedState(Viewport{TotalPages: 3}, container)
	if page.state.TotalPages != 3 || page.state.Scale <= 0 {
		t.Errorf("Unexpected fallback state: %+v", page.state)
	}
}

// TestViewerPageZoomAndFit tests the toolbar zoom interactions
func TestViewerPageZoomAndFit(t *testing.T) {
	container := viewer.Size{Width: 1224, Height: 900}
	page := &ViewerPage{state: viewer.NewState(3, container.Width)}
	page.state.SetIntrinsic(viewer.Size{Width: 612, Height: 792}, container)

	if page.state.Scale != 2.0 {
		t.Errorf("Expected fit-to-width scale 2.0, got %v", page.state.Scale)
	}

	page.state.Zoom(-0.5)
	if page.state.Fit != viewer.FitFree {
		t.Error("Manual zoom should leave fit mode")
	}
	if page.state.Scale != 1.5 {
		t.Errorf("Expected scale 1.5, got %v", page.state.Scale)
	}

	page.state.ToggleFit(container)
	if page.state.Fit != viewer.FitPage {
		t.Error("Toggling fit from free zoom should land on fit-to-page")
	}

	rendered := page.state.RenderedSize()
	if rendered.Width <= 0 || rendered.Height <= 0 {
		t.Errorf("Expected a positive rendered size, got %+v", rendered)
	}
}

// TestHomePageTotalPages tests the pagination math
func TestHomePageTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		expected int
	}{
		{name: "Empty library", total: 0, pageSize: 20, expected: 1},
		{name: "Exact fit", total: 40, pageSize: 20, expected: 2},
		{name: "Partial last page", total: 41, pageSize: 20, expected: 3},
		{name: "Unknown page size", total: 10, pageSize: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &HomePage{total: tt.total, pageSize: tt.pageSize}
			if got := page.totalPages(); got != tt.expected {
				t.Errorf("totalPages() = %d, want %d", got, tt.expected)
			}
		})
	}
}
