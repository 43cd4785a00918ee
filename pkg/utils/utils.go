package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sigweihq/wcsign/pkg/constants"
)

// CreateHTTPClientWithTimeouts returns an HTTP client with conservative
// timeouts for talking to public query endpoints
func CreateHTTPClientWithTimeouts() *http.Client {
	return &http.Client{
		Timeout: constants.QueryTimeout,
		Transport: &http.Transport{
			TLSHandshakeTimeout:   constants.TLSHandshakeTimeout,
			ResponseHeaderTimeout: constants.ResponseHeaderTimeout,
			ExpectContinueTimeout: constants.ExpectContinueTimeout,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // Disable redirects to prevent redirect-based SSRF
		},
	}
}

// ValidateRelayURL validates a WalletConnect relay URL. Relays speak
// websocket, so the scheme must be wss (ws is allowed for localhost).
func ValidateRelayURL(raw string) error {
	return validateWebSocketURL(raw, "relay")
}

// ValidateBridgeURL validates the sign-client bridge URL. Same rules as the
// relay: wss required, ws allowed for localhost only.
func ValidateBridgeURL(raw string) error {
	return validateWebSocketURL(raw, "bridge")
}

func validateWebSocketURL(raw, kind string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s URL: %w", kind, err)
	}

	switch u.Scheme {
	case "wss":
		return nil
	case "ws":
		if isLoopbackHost(u.Hostname()) {
			return nil
		}
		return fmt.Errorf("%s URL must use wss: %s", kind, raw)
	default:
		return fmt.Errorf("%s URL must use a websocket scheme: %s", kind, raw)
	}
}

func isLoopbackHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1" ||
		strings.HasSuffix(host, ".localhost")
}
