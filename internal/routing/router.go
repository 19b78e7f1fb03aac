// Package routing adds typed path converters and named-route URL building
// on top of gin.
//
// Route templates mark converted segments as <converter:param>:
//
//	r.GET("user", "/users/<hashid:user_id>", handler)
//	r.URLFor("user", map[string]any{"user_id": 123}) // "/users/Mj3"
//
// Plain parameters can be written as <param> or gin's :param / *param.
package routing

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNoMatch is returned by Converter.ToValue when a segment does not
	// belong to the converter. The route then does not match.
	ErrNoMatch = errors.New("no match")

	ErrUnknownConverter = errors.New("unknown converter")
	ErrConverterExists  = errors.New("converter already registered")
	ErrRouteExists      = errors.New("route already registered")
	ErrUnknownRoute     = errors.New("unknown route")
	ErrMissingParam     = errors.New("missing url parameter")
	ErrBadTemplate      = errors.New("bad route template")
)

// Converter translates between a path segment and a typed value.
type Converter interface {
	// ToValue is called when matching an incoming request.
	ToValue(segment string) (any, error)
	// ToURL is called when building a URL.
	ToURL(value any) (string, error)
}

// Router registers gin routes from templates and remembers them by name.
// Register converters and routes before serving; lookups are safe for
// concurrent use.
type Router struct {
	group gin.IRouter
	base  string

	mu         sync.RWMutex
	converters map[string]Converter
	routes     map[string]*route
}

// New wraps a gin engine or router group.
func New(group gin.IRouter) *Router {
	base := "/"
	if bp, ok := group.(interface{ BasePath() string }); ok {
		base = bp.BasePath()
	}
	return &Router{
		group:      group,
		base:       strings.TrimSuffix(base, "/"),
		converters: make(map[string]Converter),
		routes:     make(map[string]*route),
	}
}

// RegisterConverter makes conv available to templates as name. Registering
// an equal converter twice is a no-op, a different one is rejected.
func (r *Router) RegisterConverter(name string, conv Converter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.converters[name]; ok {
		if eq, ok := existing.(interface{ Equal(Converter) bool }); ok && eq.Equal(conv) {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrConverterExists, name)
	}
	r.converters[name] = conv
	log.WithFields(log.Fields{"converter": name}).Debug("Registered path converter")
	return nil
}

// Converter returns the converter registered as name.
func (r *Router) Converter(name string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.converters[name]
	return conv, ok
}

// Handle registers handlers for method and template. A non-empty name makes
// the route available to URLFor.
func (r *Router) Handle(method, name, template string, handlers ...gin.HandlerFunc) error {
	rt, err := r.parse(template)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if name != "" {
		if _, ok := r.routes[name]; ok {
			r.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrRouteExists, name)
		}
		r.routes[name] = rt
	}
	r.mu.Unlock()

	chain := handlers
	if rt.converted() {
		chain = append([]gin.HandlerFunc{rt.convert}, handlers...)
	}
	r.group.Handle(method, rt.pattern(), chain...)
	return nil
}

// GET, POST, PUT and DELETE panic on a bad template like gin does on
// conflicting routes.
func (r *Router) GET(name, template string, handlers ...gin.HandlerFunc) {
	r.mustHandle(http.MethodGet, name, template, handlers)
}

func (r *Router) POST(name, template string, handlers ...gin.HandlerFunc) {
	r.mustHandle(http.MethodPost, name, template, handlers)
}

func (r *Router) PUT(name, template string, handlers ...gin.HandlerFunc) {
	r.mustHandle(http.MethodPut, name, template, handlers)
}

func (r *Router) DELETE(name, template string, handlers ...gin.HandlerFunc) {
	r.mustHandle(http.MethodDelete, name, template, handlers)
}

func (r *Router) mustHandle(method, name, template string, handlers []gin.HandlerFunc) {
	if err := r.Handle(method, name, template, handlers...); err != nil {
		panic(err)
	}
}

// URLFor builds the path of the named route. Converted parameters go through
// their converter's ToURL; parameters the template does not use are added as
// query string.
func (r *Router) URLFor(name string, params map[string]any) (string, error) {
	r.mu.RLock()
	rt, ok := r.routes[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	var b strings.Builder
	b.WriteString(r.base)
	used := make(map[string]bool, len(rt.segments))
	for _, seg := range rt.segments {
		b.WriteByte('/')
		if seg.param == "" {
			b.WriteString(seg.literal)
			continue
		}
		val, ok := params[seg.param]
		if !ok {
			return "", fmt.Errorf("%w: %q for route %q", ErrMissingParam, seg.param, name)
		}
		used[seg.param] = true

		var s string
		switch {
		case seg.conv != nil:
			var err error
			if s, err = seg.conv.ToURL(val); err != nil {
				return "", fmt.Errorf("building %q for route %q: %w", seg.param, name, err)
			}
			s = url.PathEscape(s)
		case seg.catchAll:
			s = strings.TrimPrefix(fmt.Sprint(val), "/")
		default:
			s = url.PathEscape(fmt.Sprint(val))
		}
		b.WriteString(s)
	}
	if len(rt.segments) == 0 {
		b.WriteByte('/')
	}

	query := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		if !used[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		query.Add(k, fmt.Sprint(params[k]))
	}
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	return b.String(), nil
}

// Value returns the converted value of a path parameter, nil if the
// parameter has no converter.
func Value(c *gin.Context, name string) any {
	val, _ := c.Get(valueKey(name))
	return val
}

func valueKey(name string) string {
	return "routing.param." + name
}
