package auth

import (
	"net/url"
	"strings"
)

// SafeRedirect returns next when it is a path on this site and "/" otherwise,
// so a crafted login link cannot bounce residents to another host.
func SafeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return next
}
