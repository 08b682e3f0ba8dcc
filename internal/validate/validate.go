package validate

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reHex   = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
)

// ID validates a path identifier (store/billboard/color ids are UUIDs, seeds use slugs).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the length window used at sign-in.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72
}

// HexColor accepts #RGB and #RRGGBB.
func HexColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reHex.MatchString(s)
}

// Required trims s and reports whether anything is left.
func Required(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ImageURL accepts absolute http(s) URLs.
func ImageURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	return s, u.Scheme == "http" || u.Scheme == "https"
}
