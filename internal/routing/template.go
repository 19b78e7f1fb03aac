package routing

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var placeholder = regexp.MustCompile(`^<(?:([A-Za-z_][A-Za-z0-9_]*):)?([A-Za-z_][A-Za-z0-9_]*)>$`)

type segment struct {
	literal  string
	param    string
	convName string
	conv     Converter
	catchAll bool
}

type route struct {
	template string
	segments []segment
}

func (r *Router) parse(template string) (*route, error) {
	if !strings.HasPrefix(template, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrBadTemplate, template)
	}
	rt := &route{template: template}
	trimmed := strings.Trim(template, "/")
	if trimmed == "" {
		return rt, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		var seg segment
		switch {
		case placeholder.MatchString(part):
			m := placeholder.FindStringSubmatch(part)
			seg.convName, seg.param = m[1], m[2]
			if seg.convName != "" {
				conv, ok := r.converters[seg.convName]
				if !ok {
					return nil, fmt.Errorf("%w: %q in %q", ErrUnknownConverter, seg.convName, template)
				}
				seg.conv = conv
			}
		case strings.HasPrefix(part, ":") && len(part) > 1:
			seg.param = part[1:]
		case strings.HasPrefix(part, "*") && len(part) > 1:
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: catch-all %q must be the last segment of %q", ErrBadTemplate, part, template)
			}
			seg.param, seg.catchAll = part[1:], true
		case strings.ContainsAny(part, "<>:*"):
			return nil, fmt.Errorf("%w: cannot parse segment %q of %q", ErrBadTemplate, part, template)
		default:
			seg.literal = part
		}
		if seg.param != "" {
			if seen[seg.param] {
				return nil, fmt.Errorf("%w: parameter %q used twice in %q", ErrBadTemplate, seg.param, template)
			}
			seen[seg.param] = true
		}
		rt.segments = append(rt.segments, seg)
	}
	return rt, nil
}

// pattern is the gin path for the route.
func (rt *route) pattern() string {
	if len(rt.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range rt.segments {
		b.WriteByte('/')
		switch {
		case seg.param == "":
			b.WriteString(seg.literal)
		case seg.catchAll:
			b.WriteString("*" + seg.param)
		default:
			b.WriteString(":" + seg.param)
		}
	}
	return b.String()
}

func (rt *route) converted() bool {
	for _, seg := range rt.segments {
		if seg.conv != nil {
			return true
		}
	}
	return false
}

// convert runs every converter of the route on its segment before the
// handlers. A segment the converter rejects makes the request not found.
func (rt *route) convert(c *gin.Context) {
	for _, seg := range rt.segments {
		if seg.conv == nil {
			continue
		}
		val, err := seg.conv.ToValue(c.Param(seg.param))
		if errors.Is(err, ErrNoMatch) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		} else if err != nil {
			log.WithFields(log.Fields{
				"error":     err,
				"route":     rt.template,
				"converter": seg.convName,
			}).WithContext(c).Error("Path converter failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}
		c.Set(valueKey(seg.param), val)
	}
	c.Next()
}
