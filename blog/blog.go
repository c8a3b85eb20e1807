package blog

import (
	"errors"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio/cache"
	"portfolio/posts"
	"portfolio/views"
)

const pageMaxAge = 10 * time.Minute

type BlogModule struct {
	store   *posts.Store
	pages   *cache.Store
	baseURL string
	log     *zap.Logger
}

// NewBlogModule serves posts from store. Rendered pages are kept in pages
// until the store reloads.
func NewBlogModule(store *posts.Store, pages *cache.Store, baseURL string, log *zap.Logger) *BlogModule {
	store.OnReload(func(*posts.Library) {
		pages.Clear()
	})
	return &BlogModule{
		store:   store,
		pages:   pages,
		baseURL: baseURL,
		log:     log,
	}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	pageCache := cache.PageCache(b.pages, pageMaxAge)

	router.GET("/blog", pageCache, b.index)
	router.GET("/blog/:slug", pageCache, b.post)
}

// List returns the dated posts newest first. Posts sharing a date keep
// their relative input order.
func List(all []posts.Post) []posts.Post {
	out := make([]posts.Post, 0, len(all))
	for _, p := range all {
		if !p.Date.IsZero() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (b *BlogModule) index(c *gin.Context) {
	c.HTML(http.StatusOK, "blog_index.html", gin.H{
		"posts": List(b.store.Library().All()),
		"meta": views.Meta{
			Title:       "Blog",
			Description: "Notes on growth, marketing systems and building with AI.",
			Canonical:   b.baseURL + "/blog",
			OGType:      "website",
		},
	})
}

// Article is a post prepared for the detail page.
type Article struct {
	posts.Post
	Body  template.HTML
	Toc   []TocItem
	Image string
}

// NewArticle strips the leading title heading from the post body and
// builds the table of contents from the remaining headings.
func NewArticle(post posts.Post, baseURL string) (Article, error) {
	toc, body, err := TableOfContents(StripFirstHeading(post.Content))
	if err != nil {
		return Article{}, err
	}
	a := Article{
		Post: post,
		Body: template.HTML(body),
		Toc:  toc,
	}
	if post.CoverImage != nil {
		a.Image = baseURL + post.CoverImage.Src
	}
	return a, nil
}

func (b *BlogModule) post(c *gin.Context) {
	post, err := b.store.Library().BySlug(c.Param("slug"))
	if errors.Is(err, posts.ErrNotFound) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status":  http.StatusNotFound,
			"message": "This post does not exist.",
		})
		return
	}

	article, err := NewArticle(post, b.baseURL)
	if err != nil {
		b.log.Error("failed to prepare post", zap.String("slug", post.Slug), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"status":  http.StatusInternalServerError,
			"message": "This post could not be displayed.",
		})
		return
	}

	jsonLD, err := NewStructuredData(post, b.baseURL).Script()
	if err != nil {
		b.log.Warn("failed to encode structured data", zap.String("slug", post.Slug), zap.Error(err))
	}

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"article": article,
		"jsonLD":  jsonLD,
		"meta": views.Meta{
			Title:       post.Title,
			Description: post.Excerpt,
			Canonical:   b.baseURL + post.Permalink,
			OGType:      "article",
			Image:       article.Image,
		},
	})
}
