package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the proxy selector for outbound HTTP clients.
// Explicit proxy URLs win over the HTTP_PROXY/HTTPS_PROXY environment;
// with neither configured the environment settings apply as usual.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
