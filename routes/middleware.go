package routes

import (
	"bytes"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// previewLimit caps how much of a response body ends up in the log line.
const previewLimit = 512

// bodyCaptureWriter wraps the per-request ResponseWriter so the logger can
// show what was sent. One writer per request; nothing is shared.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// RequestLogger logs every API call with a truncated preview of the JSON
// response body.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		preview := writer.body.String()
		if !strings.Contains(writer.Header().Get("Content-Type"), "application/json") {
			preview = ""
		} else if len(preview) > previewLimit {
			preview = preview[:previewLimit] + "..."
		}

		log.Printf("%s %s -> %d (%s) %s",
			c.Request.Method, c.Request.URL.Path, writer.Status(),
			time.Since(start).Round(time.Millisecond), preview)
	}
}

// BodySizeLimit rejects request bodies above maxBytes. Reads past the limit
// fail inside the JSON/form binders, which report a 400 to the client.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// ErrorReporter is the last line of defence: any handler error that was not
// already answered becomes a {message} payload, and everything collected is
// written to the process log so failures stay visible.
func ErrorReporter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, e := range c.Errors {
			log.Printf("ERROR %s %s: %v", c.Request.Method, c.Request.URL.Path, e.Err)
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
	}
}
