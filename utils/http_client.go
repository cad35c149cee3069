package utils

import (
	"net"
	"net/http"
	"time"
)

// webhookTransport is shared by every outbound webhook post.
var webhookTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	MaxIdleConns:          10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	MaxIdleConnsPerHost:   2,
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Transport: webhookTransport, Timeout: timeout}
}
