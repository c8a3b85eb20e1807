package blog

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio/cache"
	"portfolio/posts"
	"portfolio/views"
)

const baseURL = "https://example.com"

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, posts.Collection, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupTestContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePost(t, dir, "older.md", "---\nslug: older-post\ntitle: Older Post\ndate: 2023-06-01\nexcerpt: The first one.\n---\n# Older Post\n\nBody.\n")
	writePost(t, dir, "newer.md", "---\nslug: newer-post\ntitle: Newer Post\ndate: 2024-02-10\ntags: [systems]\n---\n# Newer Post\n\nIntro.\n\n## Getting Started\n\nText.\n\n### Fine Print\n\nMore.\n")
	return dir
}

func setupTestRouter(t *testing.T, store *posts.Store) (*gin.Engine, *cache.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.SetHTMLTemplate(views.Must(nil))

	pages := cache.NewStore()
	NewBlogModule(store, pages, baseURL, zap.NewNop()).RegisterRoutes(router)
	return router, pages
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestStripFirstHeading(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading h1", `<h1 id="t">Title</h1><p>Body</p>`, `<p>Body</p>`},
		{"only first", "<h1>One</h1>\n<h1>Two</h1>", "<h1>Two</h1>"},
		{"uppercase", "<H1 class=\"x\">Title</H1>\n<p>a</p>", "<p>a</p>"},
		{"no h1", "<h2>Sub</h2>", "<h2>Sub</h2>"},
		{"trims", "  <h1>T</h1>\n\n<p>x</p>\n ", "<p>x</p>"},
		{"multi-line title", "<h1>\nPost title\n</h1>\n<p>intro</p>\n<h1>Second section</h1>\n<p>x</p>", "<p>intro</p>\n<h1>Second section</h1>\n<p>x</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFirstHeading(tt.in))
		})
	}
}

func TestHeadingID(t *testing.T) {
	assert.Equal(t, "getting-started", HeadingID("Getting Started"))
	assert.Equal(t, "whats-new-in-v2", HeadingID("What's new in v2?"))
	assert.Equal(t, "a-b", HeadingID("a  -  b"))
}

func TestTableOfContents(t *testing.T) {
	content := `<h2 id="intro">Intro</h2><p>x</p><h3>Deep Dive</h3><h5 id="e">Edge <em>case</em></h5>`

	items, out, err := TableOfContents(content)
	require.NoError(t, err)

	want := []TocItem{
		{ID: "intro", Text: "Intro", Level: 2},
		{ID: "deep-dive", Text: "Deep Dive", Level: 3},
		{ID: "e", Text: "Edge case", Level: 5},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("toc mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, out, `<h3 id="deep-dive">Deep Dive</h3>`)
}

func TestTableOfContents_Idempotent(t *testing.T) {
	content := `<h2>First</h2><p>a</p><h2 id="second">Second</h2>`

	first, _, err := TableOfContents(content)
	require.NoError(t, err)
	second, _, err := TableOfContents(content)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("toc not stable (-first +second):\n%s", diff)
	}
}

func TestTableOfContents_KeepsContentWithIDs(t *testing.T) {
	content := `<h2 id="a">A</h2><p>text &amp; more</p>`

	_, out, err := TableOfContents(content)
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestTableOfContents_NoHeadings(t *testing.T) {
	items, _, err := TableOfContents("<p>plain</p>")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestList(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	in := []posts.Post{
		{Slug: "mid", Date: day(5)},
		{Slug: "undated"},
		{Slug: "tie-a", Date: day(9)},
		{Slug: "old", Date: day(1)},
		{Slug: "tie-b", Date: day(9)},
	}

	var got []string
	for _, p := range List(in) {
		got = append(got, p.Slug)
	}
	assert.Equal(t, []string{"tie-a", "tie-b", "mid", "old"}, got)
}

func TestLayoutSpy(t *testing.T) {
	boxes := map[string]Box{
		"above":  {Top: -200, Bottom: 50},
		"first":  {Top: 120, Bottom: 160},
		"second": {Top: 300, Bottom: 340},
		"below":  {Top: 700, Bottom: 740},
	}
	spy := LayoutSpy{
		ViewportHeight: 1000,
		Layout: func(id string) (Box, bool) {
			b, ok := boxes[id]
			return b, ok
		},
	}

	assert.Equal(t, "first", spy.Active([]string{"above", "second", "first", "below", "missing"}))
	assert.Equal(t, "second", spy.Active([]string{"second", "below"}))
	assert.Equal(t, "", spy.Active([]string{"above", "below"}))
	assert.Equal(t, "", LayoutSpy{}.Active([]string{"first"}))
}

func TestStructuredData(t *testing.T) {
	post := posts.Post{
		Slug:       "hello",
		Title:      "Hello",
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Excerpt:    "</script><b>",
		Permalink:  "/blog/hello",
		Tags:       []string{"a", "b"},
		CoverImage: &posts.CoverImage{Src: "/public/static/c.png"},
	}

	sd := NewStructuredData(post, baseURL)
	assert.Equal(t, "BlogPosting", sd.Type)
	assert.Equal(t, "2024-03-01T00:00:00Z", sd.DatePublished)
	assert.Equal(t, baseURL+"/blog/hello", sd.URL)
	assert.Equal(t, baseURL+"/public/static/c.png", sd.Image)
	assert.Equal(t, "a, b", sd.Keywords)

	script, err := sd.Script()
	require.NoError(t, err)
	assert.NotContains(t, string(script), "</script>")
}

func TestIndex(t *testing.T) {
	lib, err := posts.Load(setupTestContent(t))
	require.NoError(t, err)
	router, _ := setupTestRouter(t, posts.NewStaticStore(lib))

	w := get(router, "/blog")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	newer := strings.Index(body, "Newer Post")
	older := strings.Index(body, "Older Post")
	require.True(t, newer >= 0 && older >= 0)
	assert.Less(t, newer, older)
	assert.Contains(t, body, `href="/blog/older-post"`)
	assert.Contains(t, body, "The first one.")
}

func TestPost(t *testing.T) {
	lib, err := posts.Load(setupTestContent(t))
	require.NoError(t, err)
	router, _ := setupTestRouter(t, posts.NewStaticStore(lib))

	w := get(router, "/blog/newer-post")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, "<h1"), "title heading rendered once")
	assert.Contains(t, body, `href="#getting-started"`)
	assert.Contains(t, body, `href="#fine-print"`)
	assert.Contains(t, body, `<link rel="canonical" href="https://example.com/blog/newer-post">`)
	assert.Contains(t, body, `"@type":"BlogPosting"`)
	assert.Contains(t, body, `og:type" content="article"`)
}

func TestPost_NotFound(t *testing.T) {
	lib, err := posts.Load(setupTestContent(t))
	require.NoError(t, err)
	router, _ := setupTestRouter(t, posts.NewStaticStore(lib))

	w := get(router, "/blog/does-not-exist")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "This post does not exist.")
}

func TestPost_CachedUntilReload(t *testing.T) {
	dir := setupTestContent(t)
	store := posts.NewStore(dir, posts.Options{})
	require.NoError(t, store.Init())
	router, pages := setupTestRouter(t, store)

	assert.Equal(t, "MISS", get(router, "/blog/older-post").Header().Get("X-Cache"))
	assert.Equal(t, "HIT", get(router, "/blog/older-post").Header().Get("X-Cache"))
	assert.Equal(t, 1, pages.Len())

	writePost(t, dir, "third.md", "---\nslug: third-post\ntitle: Third\ndate: 2024-05-01\n---\nbody")
	require.NoError(t, store.Reload())

	assert.Equal(t, 0, pages.Len())
	assert.Equal(t, http.StatusOK, get(router, "/blog/third-post").Code)
}
