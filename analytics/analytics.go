// Package analytics counts visits of selected pages.
package analytics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfolio/models"
)

const (
	visitorCookie  = "visitor_id"
	visitorMaxAge  = 60 * 60 * 24 * 365
	repeatWindow   = 30 * time.Minute
	maxLanguageLen = 35
)

// Tracker records page views. A visitor reloading the same page inside
// the repeat window is counted once.
type Tracker struct {
	db       *gorm.DB
	prefixes []string
	secure   bool
	log      *zap.Logger
	now      func() time.Time
}

// NewTracker counts successful GET requests whose path starts with one of
// prefixes.
func NewTracker(db *gorm.DB, prefixes []string, secure bool, log *zap.Logger) *Tracker {
	return &Tracker{
		db:       db,
		prefixes: prefixes,
		secure:   secure,
		log:      log,
		now:      time.Now,
	}
}

func (t *Tracker) tracked(path string) bool {
	for _, p := range t.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Middleware runs after the handler so only pages that rendered are counted.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || !t.tracked(c.Request.URL.Path) {
			c.Next()
			return
		}

		visitor := t.visitorID(c)
		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		if err := t.Record(c.Request.Context(), c.Request.URL.Path, visitor, c.Request.UserAgent(), c.GetHeader("Accept-Language")); err != nil {
			t.log.Warn("page view not recorded", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
	}
}

// visitorID reads the visitor cookie, issuing one when missing. It must
// run before the handler writes the response.
func (t *Tracker) visitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(visitorCookie, id, visitorMaxAge, "/", "", t.secure, true)
	return id
}

// Record stores a view unless the visitor already viewed path recently.
func (t *Tracker) Record(ctx context.Context, path, visitor, userAgent, acceptLanguage string) error {
	now := t.now()

	var recent int64
	err := t.db.WithContext(ctx).Model(&models.PageView{}).
		Where("path = ? AND visitor_id = ? AND created_at > ?", path, visitor, now.Add(-repeatWindow)).
		Count(&recent).Error
	if err != nil {
		return fmt.Errorf("failed to check recent views: %w", err)
	}
	if recent > 0 {
		return nil
	}

	view := &models.PageView{
		Path:      path,
		VisitorID: visitor,
		Browser:   Browser(userAgent),
		Language:  Language(acceptLanguage),
		CreatedAt: now,
	}
	if err := t.db.WithContext(ctx).Create(view).Error; err != nil {
		return fmt.Errorf("failed to save page view: %w", err)
	}
	return nil
}

// Browser names the browser family of a User-Agent. More specific tokens
// are checked first.
func Browser(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "opr") || strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "safari"):
		return "Safari"
	default:
		return "Other"
	}
}

// Language returns the first tag of an Accept-Language header.
func Language(header string) string {
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(first, ";")
	tag = strings.TrimSpace(tag)
	if len(tag) > maxLanguageLen {
		return ""
	}
	return tag
}
