package folio

import (
	"encoding/xml"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeContent(t *testing.T, a *App) {
	t.Helper()
	dir := a.Config.ContentDir
	mustWrite(t, filepath.Join(dir, "blog", "first.md"), "---\ndate: 2023-01-10\ntitle: First post\ndescription: The beginning\n---\nHello\n")
	mustWrite(t, filepath.Join(dir, "blog", "second.md"), "---\ndate: 2024-02-20\n---\n# Second post\n\nMore\n")
	mustWrite(t, filepath.Join(dir, "blog", "draft.md"), "no front matter\n")
	mustWrite(t, filepath.Join(dir, "work", "acme.md"), "---\ndate: \"2022\"\ntitle: Acme\n---\n")
}

func TestContentList(t *testing.T) {
	a := newTestApp(t, &recordingForwarder{}, nil)
	writeContent(t, a)

	rec := do(a, http.MethodGet, "/api/content/blog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode(t, rec)
	entries, ok := got["entries"].([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", got["entries"])
	}
	first := entries[0].(map[string]any)
	if first["slug"] != "second" || first["title"] != "Second post" || first["path"] != "/blog/second" {
		t.Fatalf("unexpected first entry: %v", first)
	}
	if _, has := first["body"]; has {
		t.Errorf("expected list entries without body")
	}
}

func TestContentListEmptyCollection(t *testing.T) {
	a := newTestApp(t, &recordingForwarder{}, nil)

	rec := do(a, http.MethodGet, "/api/content/project", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"entries":[]`) {
		t.Fatalf("expected empty entries array, got %s", rec.Body.String())
	}
}

func TestContentEntry(t *testing.T) {
	a := newTestApp(t, &recordingForwarder{}, nil)
	writeContent(t, a)

	rec := do(a, http.MethodGet, "/api/content/blog/first", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode(t, rec)
	if got["body"] != "Hello\n" || got["description"] != "The beginning" {
		t.Fatalf("unexpected entry: %v", got)
	}
}

func TestContentNotFound(t *testing.T) {
	a := newTestApp(t, &recordingForwarder{}, nil)
	writeContent(t, a)

	tests := []struct {
		target string
		msg    string
	}{
		{"/api/content/drafts", "Collection not found"},
		{"/api/content/drafts/first", "Collection not found"},
		{"/api/content/blog/draft", "Page not found"},
		{"/api/content/work/first", "Page not found"},
	}
	for _, tt := range tests {
		rec := do(a, http.MethodGet, tt.target, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", tt.target, rec.Code)
			continue
		}
		if got := decode(t, rec); got["statusMessage"] != tt.msg {
			t.Errorf("%s: expected %q, got %v", tt.target, tt.msg, got["statusMessage"])
		}
	}
}

func TestContentCacheTTL(t *testing.T) {
	a := newTestApp(t, &recordingForwarder{}, func(c *SiteConfig) { c.ContentCacheTTL = time.Hour })

	entries, err := a.Content.Entries("blog")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty blog")
	}

	writeContent(t, a)
	entries, _ = a.Content.Entries("blog")
	if len(entries) != 0 {
		t.Fatalf("expected cached result until invalidated")
	}

	a.Content.Invalidate()
	entries, _ = a.Content.Entries("blog")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after invalidate, got %d", len(entries))
	}
	if _, err := a.Content.Entry("blog", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSitemap(t *testing.T) {
	a := newTestApp(t, &recordingForwarder{}, nil)
	writeContent(t, a)

	rec := do(a, http.MethodGet, "/sitemap.xml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var set sitemapURLSet
	if err := xml.Unmarshal(rec.Body.Bytes(), &set); err != nil {
		t.Fatalf("parse sitemap: %v", err)
	}
	want := []sitemapURL{
		{Loc: "https://example.com"},
		{Loc: "https://example.com/blog/"},
		{Loc: "https://example.com/blog/second/", LastMod: "2024-02-20"},
		{Loc: "https://example.com/blog/first/", LastMod: "2023-01-10"},
		{Loc: "https://example.com/work/"},
		{Loc: "https://example.com/work/acme/", LastMod: "2022-01-01"},
	}
	if len(set.URLs) != len(want) {
		t.Fatalf("expected %d urls, got %d: %+v", len(want), len(set.URLs), set.URLs)
	}
	for i, u := range want {
		if set.URLs[i] != u {
			t.Errorf("url %d: expected %+v, got %+v", i, u, set.URLs[i])
		}
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Errorf("unexpected cache-control %q", got)
	}
}

func TestFeed(t *testing.T) {
	a := newTestApp(t, &recordingForwarder{}, nil)
	writeContent(t, a)

	rec := do(a, http.MethodGet, "/feed.xml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("unexpected content type %q", ct)
	}
	var feed rssXML
	if err := xml.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	if feed.Channel.Title != "Test Site" {
		t.Errorf("unexpected channel title %q", feed.Channel.Title)
	}
	if len(feed.Channel.Items) != 2 {
		t.Fatalf("expected blog entries only, got %d items", len(feed.Channel.Items))
	}
	item := feed.Channel.Items[1]
	if item.Title != "First post" || item.Link != "https://example.com/blog/first/" {
		t.Errorf("unexpected item %+v", item)
	}
	if item.PubDate != "Tue, 10 Jan 2023 00:00:00 +0000" {
		t.Errorf("unexpected pubDate %q", item.PubDate)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "post"}, "https://example.com/blog/post/"},
		{"https://example.com/", []string{"/blog/post"}, "https://example.com/blog/post/"},
		{"https://example.com/sub", []string{"work"}, "https://example.com/sub/work/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}
