package connection

import (
	"fmt"
	"net/url"
	"strings"
)

// DeriveURL builds the websocket URL for a dashboard origin. A page served
// over https gets wss, plain http gets ws. Only the host of the origin is
// kept; path replaces whatever path the origin carried.
func DeriveURL(origin, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", fmt.Errorf("parse origin: %w", err)
	}

	var scheme string
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		scheme = "wss"
	case "http", "ws":
		scheme = "ws"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if u.Host == "" {
		return "", ErrMissingOriginHost
	}

	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	ws := url.URL{Scheme: scheme, Host: u.Host, Path: path}
	return ws.String(), nil
}
