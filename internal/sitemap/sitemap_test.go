package sitemap

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fixedSlugs struct {
	slugs []string
}

func (f fixedSlugs) ItemSlugs(_ context.Context) ([]string, error) {
	return f.slugs, nil
}

func TestSitemapIncludesItemSlugs(t *testing.T) {
	h := &Handler{
		BaseURL: "https://brewgear.co.nz/",
		Catalog: fixedSlugs{slugs: []string{"comandante-c40", "fellow-stagg"}},
		Now:     func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
	}
	rec := httptest.NewRecorder()
	h.Sitemap(rec, httptest.NewRequest("GET", "/sitemap.xml", nil))

	body := rec.Body.String()
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, want := range []string{
		"<loc>https://brewgear.co.nz/items/comandante-c40</loc>",
		"<loc>https://brewgear.co.nz/items/fellow-stagg</loc>",
		"<loc>https://brewgear.co.nz/items</loc>",
		"<lastmod>2026-03-01</lastmod>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("sitemap missing %q:\n%s", want, body)
		}
	}
}

func TestRobotsPointsAtSitemap(t *testing.T) {
	h := &Handler{BaseURL: "https://brewgear.co.nz"}
	rec := httptest.NewRecorder()
	h.Robots(rec, httptest.NewRequest("GET", "/robots.txt", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "Sitemap: https://brewgear.co.nz/sitemap.xml") {
		t.Fatalf("robots missing sitemap line:\n%s", body)
	}
	if !strings.Contains(body, "Disallow: /admin") {
		t.Fatalf("robots should disallow admin:\n%s", body)
	}
}
