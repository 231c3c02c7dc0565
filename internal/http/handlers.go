package http

import (
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"yamusic/internal/core"
	"yamusic/internal/i18n"
	"yamusic/pkg/musiclink"
)

const (
	serviceName = "yamusic"
	// maxRequestBody caps POST bodies.
	maxRequestBody = 64 << 10
	// maxLinksPerRequest caps how many links one queue request may resolve.
	maxLinksPerRequest = 10

	routeResolve = "resolve"
	routeQueue   = "queue"
)

type statusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type resolveResponse struct {
	Media   *musiclink.Media `json:"media"`
	Summary string           `json:"summary"`
}

type queueRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

type queueItem struct {
	URL string `json:"url"`
	core.EnqueueResult
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

type queueResponse struct {
	Items  []queueItem      `json:"items,omitempty"`
	Songs  []musiclink.Song `json:"songs,omitempty"`
	Length int              `json:"length"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Service: serviceName})
}

func (s *Server) readyzHandler(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "starting", Service: serviceName})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready", Service: serviceName})
}

// resolveHandler serves GET /resolve?url=...
func (s *Server) resolveHandler(w http.ResponseWriter, r *http.Request) {
	localizer := s.localizer(r)
	if !s.allow(w, r, routeResolve, localizer) {
		return
	}

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		s.writeError(w, routeResolve, http.StatusBadRequest, "error.missing_url", localizer)
		return
	}
	if !s.deps.Resolver.CanResolve(rawURL) {
		s.writeError(w, routeResolve, http.StatusBadRequest, "error.not_recognized", localizer)
		return
	}

	media, err := s.deps.Resolver.Resolve(r.Context(), rawURL)
	if err != nil {
		s.logger.Debug("Resolve request failed", zap.String("url", rawURL), zap.Error(err))
		s.writeError(w, routeResolve, statusFor(err), core.MessageKey(err), localizer)
		return
	}

	s.count(routeResolve, http.StatusOK)
	writeJSON(w, http.StatusOK, resolveResponse{
		Media:   media,
		Summary: core.DescribeMedia(media, localizer),
	})
}

// queueListHandler serves GET /queue.
func (s *Server) queueListHandler(w http.ResponseWriter, _ *http.Request) {
	songs := s.deps.Queue.Songs()
	s.count(routeQueue, http.StatusOK)
	writeJSON(w, http.StatusOK, queueResponse{Songs: songs, Length: len(songs)})
}

// queueAddHandler serves POST /queue with {"url": ...} or {"text": ...}; every Yandex Music
// link found in text is resolved and queued in order, other URLs are reported as skipped.
func (s *Server) queueAddHandler(w http.ResponseWriter, r *http.Request) {
	localizer := s.localizer(r)
	if !s.allow(w, r, routeQueue, localizer) {
		return
	}

	var req queueRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil || json.Unmarshal(body, &req) != nil {
		s.writeError(w, routeQueue, http.StatusBadRequest, "error.generic", localizer)
		return
	}

	message := s.parser.ParseMessage(req.Text)
	links := message.Links
	if req.URL != "" {
		links = append([]string{req.URL}, links...)
	}
	if len(links) == 0 && len(message.Skipped) == 0 {
		s.writeError(w, routeQueue, http.StatusBadRequest, "error.missing_url", localizer)
		return
	}
	if len(links) > maxLinksPerRequest {
		links = links[:maxLinksPerRequest]
	}

	items := make([]queueItem, 0, len(links)+len(message.Skipped))
	for _, link := range links {
		items = append(items, s.enqueue(r, link, localizer))
	}
	for _, skipped := range message.Skipped {
		items = append(items, queueItem{
			URL:     skipped,
			Error:   "error.not_recognized",
			Message: localizer.T("error.not_recognized"),
		})
	}

	length := s.deps.Queue.Len()
	s.deps.Metrics.QueueLength.Set(float64(length))
	s.count(routeQueue, http.StatusOK)
	writeJSON(w, http.StatusOK, queueResponse{Items: items, Length: length})
}

func (s *Server) enqueue(r *http.Request, link string, localizer *i18n.Localizer) queueItem {
	item := queueItem{URL: link}
	if !s.deps.Resolver.CanResolve(link) {
		item.Error = "error.not_recognized"
		item.Message = localizer.T(item.Error)
		return item
	}

	media, err := s.deps.Resolver.Resolve(r.Context(), link)
	if err != nil {
		item.Error = core.MessageKey(err)
		item.Message = localizer.T(item.Error)
		return item
	}

	result, err := s.deps.Queue.Enqueue(media)
	item.EnqueueResult = result
	if err != nil {
		item.Error = core.MessageKey(err)
		item.Message = localizer.T(item.Error)
		return item
	}
	item.Message = localizer.T("success.queued", result.Added, result.Duplicates)
	return item
}

// allow applies the flood gate and writes a 429 when the client is over its limit.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, route string, localizer *i18n.Localizer) bool {
	if s.deps.Floodgate == nil {
		return true
	}
	decision := s.deps.Floodgate.Check(route, clientKey(r))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if decision.Allowed {
		return true
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
	s.deps.Metrics.RateLimitedTotal.Inc()
	s.writeError(w, route, http.StatusTooManyRequests, "error.rate_limited", localizer)
	return false
}

func (s *Server) writeError(w http.ResponseWriter, route string, status int, key string, localizer *i18n.Localizer) {
	s.count(route, status)
	writeJSON(w, status, errorResponse{Error: key, Message: localizer.T(key)})
}

func (s *Server) count(route string, status int) {
	s.deps.Metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// localizer picks the response language from ?lang= or Accept-Language.
func (s *Server) localizer(r *http.Request) *i18n.Localizer {
	fallback := s.deps.Language
	if fallback == "" {
		fallback = i18n.DefaultLanguage
	}
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return i18n.NewLocalizer(i18n.MatchLanguage(lang, fallback))
	}
	return i18n.NewLocalizer(i18n.MatchLanguage(r.Header.Get("Accept-Language"), fallback))
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// statusFor maps pipeline failures onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, musiclink.ErrNotRecognized):
		return http.StatusBadRequest
	case errors.Is(err, musiclink.ErrStream), errors.Is(err, musiclink.ErrNothingPlayable):
		return http.StatusUnprocessableEntity
	}

	switch musiclink.ReasonOf(err) {
	case musiclink.ReasonTrackNotFound, musiclink.ReasonCollectionNotFound, musiclink.ReasonCollectionEmpty:
		return http.StatusNotFound
	case musiclink.ReasonTransport, musiclink.ReasonInvalidPayload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func homeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(homePage)); err != nil {
			logger.Debug("Failed to write home page", zap.Error(err))
		}
	}
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>yamusic</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
        code { background: #f4f4f4; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1 class="header">🎵 yamusic</h1>
    <p>Yandex Music link resolver</p>

    <h2>Endpoints</h2>
    <div class="endpoint">🔗 <code>GET /resolve?url=...</code> - Resolve a track, album or playlist link</div>
    <div class="endpoint">📜 <a href="/queue">Queue</a> - Current play queue, <code>POST /queue</code> to add links</div>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`
