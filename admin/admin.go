// Package admin serves the password-protected inbox of contact messages.
package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"portfolio/analytics"
	"portfolio/cache"
	"portfolio/contact"
	"portfolio/views"
)

const (
	sessionKey   = "admin"
	defaultLimit = 20
	maxLimit     = 100
	hashCost     = 14
	statsDays    = 30
	topPaths     = 10
	flashCleared = "cache_cleared"
)

type AdminModule struct {
	repo         contact.Repository
	stats        *analytics.Stats
	caches       []*cache.Store
	passwordHash string
	log          *zap.Logger
	now          func() time.Time
}

// NewAdminModule returns a module whose routes answer 404 while
// passwordHash is empty. caches are flushed by the clear-cache action.
func NewAdminModule(repo contact.Repository, stats *analytics.Stats, caches []*cache.Store, passwordHash string, log *zap.Logger) *AdminModule {
	return &AdminModule{
		repo:         repo,
		stats:        stats,
		caches:       caches,
		passwordHash: passwordHash,
		log:          log,
		now:          time.Now,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/admin", a.requireEnabled)
	{
		group.GET("/login", a.loginPage)
		group.POST("/login", a.loginPost)
		group.GET("/logout", a.logout)
		group.GET("/messages", a.requireAuth, a.messages)
		group.GET("/views", a.requireAuth, a.pageViews)
		group.POST("/cache/clear", a.requireAuth, a.clearCache)
	}
}

func (a *AdminModule) requireEnabled(c *gin.Context) {
	if a.passwordHash == "" {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Next()
}

func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionKey) != true {
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
		return
	}
	c.Next()
}

func (a *AdminModule) loginPage(c *gin.Context) {
	if sessions.Default(c).Get(sessionKey) == true {
		c.Redirect(http.StatusFound, "/admin/messages")
		return
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{
		"meta": views.Meta{Title: "Admin"},
	})
}

func (a *AdminModule) loginPost(c *gin.Context) {
	if !CheckPassword(c.PostForm("password"), a.passwordHash) {
		a.log.Warn("admin login failed", zap.String("ip", c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"error": "Incorrect password",
			"meta":  views.Meta{Title: "Admin"},
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKey, true)
	if err := session.Save(); err != nil {
		a.log.Error("failed to save admin session", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to save session")
		return
	}

	c.Redirect(http.StatusFound, "/admin/messages")
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	a.saveSession(session)

	c.Redirect(http.StatusFound, "/admin/login")
}

// Page is one window of the inbox.
type Page struct {
	Limit  int
	Offset int
	Total  int64
}

func (p Page) HasPrev() bool { return p.Offset > 0 }
func (p Page) HasNext() bool { return int64(p.Offset+p.Limit) < p.Total }

func (p Page) PrevOffset() int {
	if p.Offset < p.Limit {
		return 0
	}
	return p.Offset - p.Limit
}

func (p Page) NextOffset() int { return p.Offset + p.Limit }

// ParsePage reads limit and offset, falling back to the first page.
func ParsePage(limit, offset string) Page {
	p := Page{Limit: defaultLimit}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = min(n, maxLimit)
	}
	if n, err := strconv.Atoi(offset); err == nil && n > 0 {
		p.Offset = n
	}
	return p
}

func (a *AdminModule) messages(c *gin.Context) {
	page := ParsePage(c.Query("limit"), c.Query("offset"))
	ctx := c.Request.Context()

	total, err := a.repo.Count(ctx)
	if err != nil {
		a.serverError(c, "Failed to load messages.", err)
		return
	}
	page.Total = total

	msgs, err := a.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		a.serverError(c, "Failed to load messages.", err)
		return
	}

	session := sessions.Default(c)
	cleared := len(session.Flashes(flashCleared)) > 0
	if cleared {
		a.saveSession(session)
	}

	c.HTML(http.StatusOK, "admin_messages.html", gin.H{
		"messages": msgs,
		"page":     page,
		"cleared":  cleared,
		"meta":     views.Meta{Title: "Messages"},
	})
}

func (a *AdminModule) pageViews(c *gin.Context) {
	ctx := c.Request.Context()
	now := a.now()

	top, err := a.stats.TopPaths(ctx, now.AddDate(0, 0, -statsDays), topPaths)
	if err != nil {
		a.serverError(c, "Failed to load page views.", err)
		return
	}
	daily, err := a.stats.ViewsByDay(ctx, now, statsDays)
	if err != nil {
		a.serverError(c, "Failed to load page views.", err)
		return
	}

	c.HTML(http.StatusOK, "admin_views.html", gin.H{
		"top":   top,
		"daily": daily,
		"days":  statsDays,
		"meta":  views.Meta{Title: "Page views"},
	})
}

func (a *AdminModule) serverError(c *gin.Context, message string, err error) {
	a.log.Error("admin request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"status":  http.StatusInternalServerError,
		"message": message,
	})
}

// saveSession persists session changes where a failure only loses a flash
// or leaves a stale cookie, so the request carries on.
func (a *AdminModule) saveSession(session sessions.Session) {
	if err := session.Save(); err != nil {
		a.log.Error("failed to save admin session", zap.Error(err))
	}
}

func (a *AdminModule) clearCache(c *gin.Context) {
	for _, store := range a.caches {
		store.Clear()
	}
	a.log.Info("caches cleared by admin")

	session := sessions.Default(c)
	session.AddFlash(true, flashCleared)
	a.saveSession(session)

	c.Redirect(http.StatusSeeOther, "/admin/messages")
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
