package site

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio/blog"
	"portfolio/posts"
	"portfolio/views"
)

const recentPosts = 3

type SiteModule struct {
	data    *Data
	store   *posts.Store
	baseURL string
	log     *zap.Logger
	now     func() time.Time
}

func NewSiteModule(data *Data, store *posts.Store, baseURL string, log *zap.Logger) *SiteModule {
	return &SiteModule{
		data:    data,
		store:   store,
		baseURL: baseURL,
		log:     log,
		now:     time.Now,
	}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", s.home)
	router.GET("/about-me", s.about)
	router.GET("/marketing", s.marketing)
	router.GET("/vibe-coding", s.vibeCoding)
	router.GET("/vibe-coding/local-setup", s.localSetup)
	router.GET("/sitemap.xml", s.sitemap)
}

func (s *SiteModule) meta(title, description, path string) views.Meta {
	return views.Meta{
		Title:       title,
		Description: description,
		Canonical:   s.baseURL + path,
		OGType:      "website",
	}
}

func (s *SiteModule) home(c *gin.Context) {
	recent := blog.List(s.store.Library().All())
	if len(recent) > recentPosts {
		recent = recent[:recentPosts]
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"hero":     s.data.Hero,
		"bento":    s.data.Bento,
		"journey":  s.data.Journey,
		"running":  s.data.SystemsIn("running"),
		"building": s.data.SystemsIn("building"),
		"posts":    recent,
		"meta":     s.meta("", s.data.Hero.Headline, "/"),
	})
}

func (s *SiteModule) about(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", gin.H{
		"journey": s.data.Journey,
		"meta":    s.meta("About Me", "From sales transformation to AI-driven growth operations.", "/about-me"),
	})
}

func (s *SiteModule) marketing(c *gin.Context) {
	c.HTML(http.StatusOK, "marketing.html", gin.H{
		"meta": s.meta("Marketing", "Playbooks for B2B growth, demand generation and marketing operations.", "/marketing"),
	})
}

func (s *SiteModule) vibeCoding(c *gin.Context) {
	c.HTML(http.StatusOK, "vibe_coding.html", gin.H{
		"running":  s.data.SystemsIn("running"),
		"building": s.data.SystemsIn("building"),
		"meta":     s.meta("Tech Learnings", "Side projects, local AI and the systems behind them.", "/vibe-coding"),
	})
}

func (s *SiteModule) localSetup(c *gin.Context) {
	c.HTML(http.StatusOK, "local_setup.html", gin.H{
		"setup": s.data.LocalSetup,
		"meta":  s.meta("Local Setup", s.data.LocalSetup.Intro, "/vibe-coding/local-setup"),
	})
}

func (s *SiteModule) sitemap(c *gin.Context) {
	doc, err := Sitemap(s.baseURL, s.store.Library().All(), s.now())
	if err != nil {
		s.log.Error("failed to build sitemap", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", doc)
}
