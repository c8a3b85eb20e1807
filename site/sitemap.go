package site

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"portfolio/posts"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Entries lists every public URL in sitemap order.
func Entries(baseURL string, all []posts.Post, now time.Time) []SitemapURL {
	base := strings.TrimSuffix(baseURL, "/")
	entry := func(path, freq, priority string, mod time.Time) SitemapURL {
		return SitemapURL{
			Loc:        base + path,
			LastMod:    mod.UTC().Format(time.RFC3339),
			ChangeFreq: freq,
			Priority:   priority,
		}
	}

	urls := []SitemapURL{
		entry("/", "monthly", "1.0", now),
		entry("/vibe-coding", "weekly", "0.8", now),
		entry("/marketing", "weekly", "0.8", now),
		entry("/blog", "weekly", "0.8", now),
	}
	for _, p := range all {
		mod := p.Date
		if mod.IsZero() {
			mod = now
		}
		urls = append(urls, entry(p.Permalink, "monthly", "0.7", mod))
	}
	urls = append(urls,
		entry("/about-me", "monthly", "0.7", now),
		entry("/contact", "monthly", "0.8", now),
	)
	return urls
}

// Sitemap renders the sitemap document.
func Sitemap(baseURL string, all []posts.Post, now time.Time) ([]byte, error) {
	out, err := xml.MarshalIndent(urlSet{
		Xmlns: sitemapNS,
		URLs:  Entries(baseURL, all, now),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// WriteSitemap writes the sitemap to dir/sitemap.xml.
func WriteSitemap(dir, baseURL string, all []posts.Post, now time.Time) (string, error) {
	doc, err := Sitemap(baseURL, all, now)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "sitemap.xml")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("failed to write sitemap: %w", err)
	}
	return path, nil
}
