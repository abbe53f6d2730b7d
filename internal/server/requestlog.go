package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	prefix []byte
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	if len(r.prefix) < 32 {
		r.prefix = append(r.prefix, b[:min(len(b), 32-len(r.prefix))]...)
	}
	return r.ResponseWriter.Write(b)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var body string
		if r.Body != nil && r.Method == http.MethodPost {
			b, _ := io.ReadAll(r.Body)
			r.Body.Close()
			body = string(b)
			r.Body = io.NopCloser(bytes.NewReader(b))
		}

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		entry := RequestLog{
			Timestamp: start,
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      body,
			Status:    rec.status,
			Outcome:   outcomeOf(rec),
			Duration:  time.Since(start),
		}
		s.logger.Debug("request",
			"method", entry.Method,
			"path", entry.Path,
			"status", entry.Status,
			"outcome", entry.Outcome,
			"duration", entry.Duration,
		)
		if s.config.Logging {
			s.logRequest(entry)
		}
	})
}

func outcomeOf(rec *statusRecorder) string {
	switch {
	case rec.status != http.StatusOK:
		return "error"
	case strings.HasPrefix(string(rec.prefix), "data:image"):
		return "image"
	default:
		return "message"
	}
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logSeq++
	log.Seq = s.logSeq
	s.logs = append(s.logs, log)
	if len(s.logs) > s.config.MaxLogs {
		s.logs = s.logs[len(s.logs)-s.config.MaxLogs:]
	}

	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// LogsSince returns the logged requests with Seq greater than seq
func (s *Server) LogsSince(seq uint64) []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	i := len(s.logs)
	for i > 0 && s.logs[i-1].Seq > seq {
		i--
	}
	logs := make([]RequestLog, len(s.logs)-i)
	copy(logs, s.logs[i:])
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}
