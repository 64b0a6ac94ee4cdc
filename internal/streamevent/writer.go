package streamevent

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	jsonutil "github.com/kart-io/sentinel-x/pkg/utils/json"
)

// Writer emits Events as newline-delimited JSON over a gin response,
// flushing after every line so clients receive each event as it happens.
type Writer struct {
	c *gin.Context
}

// NewWriter prepares c's response for a streamed turn: chunked transfer,
// no buffering by intermediate proxies, and the line-delimited content
// type the client-side parser expects.
func NewWriter(c *gin.Context) *Writer {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	return &Writer{c: c}
}

// Emit writes one event line and flushes. Returns false once the client
// has gone away, signaling the caller to stop emitting further events.
func (w *Writer) Emit(ev Event) bool {
	data, err := jsonutil.Marshal(ev)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w.c.Writer, "%s\n", data); err != nil {
		return false
	}
	w.c.Writer.Flush()
	return w.c.Request.Context().Err() == nil
}
