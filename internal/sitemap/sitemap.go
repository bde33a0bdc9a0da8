// Package sitemap renders sitemap.xml and robots.txt for the storefront.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Slugs lists published item slugs.
type Slugs interface {
	ItemSlugs(ctx context.Context) ([]string, error)
}

// Handler serves crawler endpoints.
type Handler struct {
	BaseURL string
	Catalog Slugs
	Now     func() time.Time
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

var staticPaths = []string{"", "/items", "/categories"}

// Sitemap handles GET /sitemap.xml.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimRight(h.BaseURL, "/")
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	lastMod := ""
	if h.Now != nil {
		lastMod = h.Now().Format("2006-01-02")
	}
	for _, p := range staticPaths {
		set.URLs = append(set.URLs, urlEntry{Loc: base + p, LastMod: lastMod})
	}
	if h.Catalog != nil {
		slugs, err := h.Catalog.ItemSlugs(r.Context())
		if err != nil {
			http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
			return
		}
		for _, slug := range slugs {
			set.URLs = append(set.URLs, urlEntry{Loc: base + "/items/" + slug, LastMod: lastMod})
		}
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(set)
}

// Robots handles GET /robots.txt.
func (h *Handler) Robots(w http.ResponseWriter, _ *http.Request) {
	base := strings.TrimRight(h.BaseURL, "/")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nDisallow: /admin\nDisallow: /api\n\nSitemap: %s/sitemap.xml\n", base)
}
