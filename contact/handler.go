package contact

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"portfolio/views"
)

const flashKey = "contact_success"

type ContactModule struct {
	service *Service
	baseURL string
}

func NewContactModule(service *Service, baseURL string) *ContactModule {
	return &ContactModule{service: service, baseURL: baseURL}
}

func (m *ContactModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/contact", m.form)
	router.POST("/contact", m.submit)
}

func (m *ContactModule) meta() views.Meta {
	return views.Meta{
		Title:       "Contact",
		Description: "Get in touch about growth, marketing systems or a collaboration.",
		Canonical:   m.baseURL + "/contact",
	}
}

func (m *ContactModule) form(c *gin.Context) {
	session := sessions.Default(c)
	var success string
	if flashes := session.Flashes(flashKey); len(flashes) > 0 {
		success, _ = flashes[0].(string)
		if err := session.Save(); err != nil {
			c.Error(err)
		}
	}

	c.HTML(http.StatusOK, "contact.html", gin.H{
		"meta":    m.meta(),
		"success": success,
		"form":    Form{},
	})
}

func (m *ContactModule) submit(c *gin.Context) {
	var f Form
	if err := c.ShouldBind(&f); err != nil {
		m.respond(c, f, failure(http.StatusBadRequest, msgValidationFailed))
		return
	}
	m.respond(c, f, m.service.Submit(c.Request.Context(), f))
}

// respond answers scripted callers with JSON. Browser posts are redirected
// back to the form on success and re-rendered with their input on failure.
func (m *ContactModule) respond(c *gin.Context, f Form, res Result) {
	if wantsJSON(c) {
		c.JSON(res.Status(), res)
		return
	}

	if res.Success {
		session := sessions.Default(c)
		session.AddFlash(res.Message, flashKey)
		if err := session.Save(); err != nil {
			c.Error(err)
		}
		c.Redirect(http.StatusSeeOther, "/contact")
		return
	}

	f.Website = ""
	c.HTML(res.Status(), "contact.html", gin.H{
		"meta":  m.meta(),
		"error": res.Error,
		"form":  f,
	})
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}
