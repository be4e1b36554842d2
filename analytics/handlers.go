package analytics

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Limiter caps how often one key may be recorded.
type Limiter interface {
	Allow(key string) bool
}

// Recorder stores page views for successful GET requests.
type Recorder struct {
	store   *Store
	limiter Limiter
	skip    []string
	now     func() time.Time
}

// NewRecorder returns a Recorder writing to store. limiter may be nil.
// Paths starting with any of skipPrefixes are never recorded.
func NewRecorder(store *Store, limiter Limiter, skipPrefixes ...string) *Recorder {
	return &Recorder{store: store, limiter: limiter, skip: skipPrefixes, now: time.Now}
}

func (r *Recorder) skipped(path string) bool {
	for _, p := range r.skip {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Middleware records the visit after the handler ran. Failed requests,
// Do-Not-Track requests and rate-limited clients are not recorded; recording
// errors are logged and never affect the response.
func (r *Recorder) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			req := c.Request()
			if err != nil || req.Method != http.MethodGet || c.Response().Status != http.StatusOK {
				return err
			}
			if req.Header.Get("DNT") == "1" || r.skipped(req.URL.Path) {
				return nil
			}
			ip := c.RealIP()
			if r.limiter != nil && !r.limiter.Allow(ip) {
				return nil
			}
			r.record(c, ip)
			return nil
		}
	}
}

func (r *Recorder) record(c echo.Context, ip string) {
	req := c.Request()
	ua := req.UserAgent()
	path := req.URL.Path
	ctx := req.Context()
	if IsBot(ua) {
		if err := r.store.SaveBotVisit(ctx, NewBotVisit(ip, ua, path, r.now())); err != nil {
			c.Logger().Errorf("save bot visit: %v", err)
		}
		return
	}
	if err := r.store.SaveVisit(ctx, NewVisit(ip, ua, path, req.Referer(), r.now())); err != nil {
		c.Logger().Errorf("save visit: %v", err)
	}
}
