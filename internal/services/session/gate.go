package session

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"appstate/internal/binding"
	"appstate/internal/domain"
)

// Routes names the locations the gate redirects between.
type Routes struct {
	// AuthArea is the first path segment of the unauthenticated area.
	AuthArea string `toml:"auth_area"`
	// SignIn is the unauthenticated entry route.
	SignIn domain.Route `toml:"sign_in"`
	// Home is the authenticated entry route.
	Home domain.Route `toml:"home"`
	// NotFound is exempt from gating.
	NotFound domain.Route `toml:"not_found"`
}

// DefaultRoutes returns the starter app's route layout.
func DefaultRoutes() Routes {
	return Routes{
		AuthArea: "auth",
		SignIn:   "/auth/login",
		Home:     "/dashboard",
		NotFound: "/not-found",
	}
}

// Gate redirects between the authenticated and unauthenticated areas
// based on whether a session is present.
type Gate struct {
	routes  Routes
	session binding.Source[domain.Session]
	log     *zap.Logger
}

// NewGate builds a Gate over the session source.
func NewGate(routes Routes, session binding.Source[domain.Session], log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{routes: routes, session: session, log: log}
}

// Check decides where location should redirect for the given session
// presence. ok is false when no redirect is needed.
func (g *Gate) Check(location domain.Route, signedIn bool) (redirect domain.Route, ok bool) {
	loc := normalize(location)
	if loc == normalize(g.routes.NotFound) {
		return "", false
	}
	inAuth := g.inAuthArea(loc)
	switch {
	case !signedIn && !inAuth:
		return g.routes.SignIn, true
	case signedIn && inAuth:
		return g.routes.Home, true
	default:
		return "", false
	}
}

// Evaluate runs Check against the current session snapshot.
func (g *Gate) Evaluate(location domain.Route) (domain.Route, bool) {
	_, signedIn := g.session.Snapshot()
	return g.Check(location, signedIn)
}

// Attach evaluates the navigator's location now and after every session
// change, replacing the route when the gate redirects. The returned
// function detaches the gate.
func (g *Gate) Attach(nav domain.Navigator) (detach func()) {
	return binding.Watch(g.session, func(_ domain.Session, signedIn bool) {
		from := nav.Location()
		to, ok := g.Check(from, signedIn)
		if !ok {
			return
		}
		g.log.Debug("gate redirect",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Bool("signed_in", signedIn),
		)
		nav.Replace(to)
	})
}

func (g *Gate) inAuthArea(loc string) bool {
	first, _, _ := strings.Cut(strings.TrimPrefix(loc, "/"), "/")
	return first == g.routes.AuthArea
}

// normalize strips query and fragment and cleans the path.
func normalize(r domain.Route) string {
	s := string(r)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "/"
	}
	return path.Clean("/" + s)
}
