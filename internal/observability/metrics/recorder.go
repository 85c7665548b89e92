package metrics

import "net/http"

// ResponseRecorder captures the status and body size a handler produced,
// for the metrics and access-log middleware. Every route serves plain
// JSON, so Flusher/Hijacker are deliberately not forwarded.
type ResponseRecorder struct {
	http.ResponseWriter
	Status int
	Bytes  int
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *ResponseRecorder) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *ResponseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.Bytes += n
	return n, err
}
