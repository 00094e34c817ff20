package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/workdeck/avatarproxy/internal/cache"
)

const (
	headerETag            = "ETag"
	headerLastModified    = "Last-Modified"
	headerCacheControl    = "Cache-Control"
	headerIfNoneMatch     = "If-None-Match"
	headerIfModifiedSince = "If-Modified-Since"

	cacheControlValue = "public, max-age=300, stale-while-revalidate=600"
)

// writeEntry emits either a 304 or a full 200 for a cache entry, depending on
// the request's conditional validators. It makes no distinction between a
// fresh computation and a cache hit; only the entry and the validators matter.
func writeEntry(c *gin.Context, e *cache.Entry) {
	c.Header(headerCacheControl, cacheControlValue)
	c.Header(headerETag, e.ETag)
	c.Header(headerLastModified, e.ModTime.UTC().Format(http.TimeFormat))

	if notModified(c.Request, e) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("Content-Length", strconv.Itoa(len(e.Buffer)))
	c.Data(http.StatusOK, "image/png", e.Buffer)
}

// notModified applies the conditional checks: an exact If-None-Match match on
// the entry's ETag, or an If-Modified-Since at or after the entry's ModTime.
func notModified(r *http.Request, e *cache.Entry) bool {
	if inm := r.Header.Get(headerIfNoneMatch); inm != "" && inm == e.ETag {
		return true
	}
	if ims := r.Header.Get(headerIfModifiedSince); ims != "" {
		if t, err := http.ParseTime(ims); err == nil {
			// Last-Modified serializes at second precision.
			if !t.Before(e.ModTime.Truncate(time.Second)) {
				return true
			}
		}
	}
	return false
}
