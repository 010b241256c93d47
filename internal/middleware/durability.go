package middleware

import "github.com/gin-gonic/gin"

// StorageDurableHeader is set to "false" on responses served while data is
// only kept in memory.
const StorageDurableHeader = "X-Storage-Durable"

// DurabilityReporter reports whether writes currently reach durable storage.
type DurabilityReporter interface {
	Durable() bool
}

// Durability marks responses produced while the storage layer is degraded.
// The check is repeated when the response headers go out, so a request whose
// own write moved the storage layer to memory is marked too.
func Durability(r DurabilityReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &durabilityWriter{ResponseWriter: c.Writer, reporter: r}
		c.Writer = w
		w.mark()
		c.Next()
		w.mark()
	}
}

type durabilityWriter struct {
	gin.ResponseWriter
	reporter DurabilityReporter
}

func (w *durabilityWriter) mark() {
	if !w.Written() && !w.reporter.Durable() {
		w.Header().Set(StorageDurableHeader, "false")
	}
}

func (w *durabilityWriter) WriteHeader(code int) {
	w.mark()
	w.ResponseWriter.WriteHeader(code)
}

func (w *durabilityWriter) WriteHeaderNow() {
	w.mark()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *durabilityWriter) Write(data []byte) (int, error) {
	w.mark()
	return w.ResponseWriter.Write(data)
}

func (w *durabilityWriter) WriteString(s string) (int, error) {
	w.mark()
	return w.ResponseWriter.WriteString(s)
}
