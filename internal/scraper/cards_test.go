package scraper

import "testing"

func TestCountText(t *testing.T) {
	html := `<html><body>
		<div><span>Resolve this complaint</span></div>
		<div><span>Resolve this complaint</span></div>
		<div><span>Something else</span></div>
	</body></html>`
	if got := countText(html, "Resolve this complaint"); got != 2 {
		t.Errorf("countText = %d, want 2", got)
	}
}

func TestCountTextCountsLeavesOnly(t *testing.T) {
	// The wrapping div also contains the text; only the leaf counts.
	html := `<div><p>View Review Details</p></div>`
	if got := countText(html, "View Review Details"); got != 1 {
		t.Errorf("countText = %d, want 1", got)
	}
}

func TestCountTextNoMatch(t *testing.T) {
	if got := countText("<div>nothing here</div>", "Resolve"); got != 0 {
		t.Errorf("countText = %d, want 0", got)
	}
}

func TestFirstImageSrc(t *testing.T) {
	html := `<div><img src="https://cdn.example.com/a.jpg"/><img src="https://cdn.example.com/b.jpg"/></div>`
	if got := firstImageSrc(html); got != "https://cdn.example.com/a.jpg" {
		t.Errorf("firstImageSrc = %q", got)
	}
}

func TestFirstImageSrcMissing(t *testing.T) {
	if got := firstImageSrc("<div><p>no images</p></div>"); got != "" {
		t.Errorf("firstImageSrc = %q, want empty", got)
	}
}
