package pubfolio

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfolio/recent"
)

// sessionStorage keeps the recent pages list in the visitor's signed
// session cookie.
type sessionStorage struct {
	c echo.Context
}

func (s sessionStorage) Get(key string) (string, bool, error) {
	sess, err := session.Get(sessionName, s.c)
	if err != nil {
		return "", false, err
	}
	v, ok := sess.Values[key].(string)
	return v, ok, nil
}

func (s sessionStorage) Set(key, value string) error {
	sess, err := session.Get(sessionName, s.c)
	if err != nil {
		return err
	}
	sess.Values[key] = value
	return sess.Save(s.c.Request(), s.c.Response())
}

func (s sessionStorage) Remove(key string) error {
	sess, err := session.Get(sessionName, s.c)
	if err != nil {
		return err
	}
	delete(sess.Values, key)
	return sess.Save(s.c.Request(), s.c.Response())
}

func (a *App) recentTracker(c echo.Context) *recent.Tracker {
	return recent.NewTracker(sessionStorage{c: c}, c.Logger())
}

// trackVisit records the current page in the visitor's recent list. It must
// run before the response is written so the cookie can be set.
func (a *App) trackVisit(c echo.Context) {
	p, ok := recent.PageFor(c.Request().URL.Path, a.Cache.SearchIndex())
	if !ok {
		return
	}
	a.recentTracker(c).Record(p)
}

func (a *App) handleRecentAPI(c echo.Context) error {
	pages := a.recentTracker(c).List()
	if pages == nil {
		pages = []recent.Page{}
	}
	return c.JSON(http.StatusOK, pages)
}

func (a *App) handleRecentClear(c echo.Context) error {
	a.recentTracker(c).Clear()
	return c.Redirect(http.StatusSeeOther, "/")
}
