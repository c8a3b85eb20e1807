package cache

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const htmlContentType = "text/html; charset=utf-8"

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// PageCache serves successful HTML GET responses from store for maxAge.
// The request path is the cache key; query strings are ignored.
func PageCache(store *Store, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := Key("page", c.Request.URL.Path)
		if cached, found := store.Get(key); found {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, htmlContentType, cached.([]byte))
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")
		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = writer

		c.Next()

		if writer.Status() == http.StatusOK &&
			writer.Header().Get("Content-Type") == htmlContentType {
			store.Set(key, writer.body.Bytes(), maxAge)
		}
	}
}
