/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/chessresults-scraper/s3cache"
)

// NewCachedHttpClient returns an http.Client that caches tournament pages in
// the given S3 bucket. If bucket is empty or the S3 cache cannot be
// initialized it falls back to uncached http. It also enforces a client-side
// TTL by rewriting origin cache headers and stamps every request with our
// User-Agent.
func NewCachedHttpClient(ctx context.Context, bucket string,
	maxAge time.Duration) *http.Client {

	if bucket == "" {
		return newUncachedClient()
	}
	cache := s3cache.New(ctx, bucket, true, true)
	if err := cache.Init(); err != nil {
		log.Printf("httpcache: warning failed to init S3 cache: %v; falling back to uncached http", err)
		return newUncachedClient()
	}

	return newCachingClient(cache, maxAge)
}

func setUserAgent(req *http.Request) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
}

func newUncachedClient() *http.Client {
	return &http.Client{
		Transport: NewHeaderOverrideTransport(http.DefaultTransport,
			setUserAgent, nil),
	}
}

func newCachingClient(cache httpcache.Cache, maxAge time.Duration) *http.Client {
	hc := httpcache.NewTransport(cache)
	// chess-results marks its pages uncacheable, so the origin headers have
	// to be overridden before httpcache sees them
	hc.Transport = NewHeaderOverrideTransport(http.DefaultTransport,
		setUserAgent,
		func(resp *http.Response) error {
			// Strip any cache-busting headers from origin
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			if resp.StatusCode != http.StatusOK {
				resp.Header.Set("Cache-Control", "no-store")
				return nil
			}
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		})

	return &http.Client{Transport: hc}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// NewHeaderOverrideTransport wraps rt with the given request/response hooks.
// A nil rt means http.DefaultTransport.
func NewHeaderOverrideTransport(rt http.RoundTripper,
	request func(req *http.Request),
	response func(resp *http.Response) error) *HeaderOverrideTransport {

	if rt == nil {
		rt = http.DefaultTransport
	}
	return &HeaderOverrideTransport{
		Request:   request,
		Response:  response,
		wrappedRT: rt,
	}
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so the caller's request is left untouched
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
