/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chessresults

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/chessresults-scraper/internal"
	"golang.org/x/sync/errgroup"
)

// Config configures a Client.
type Config struct {
	// BaseURL against which relative tournament links are resolved.
	BaseURL string
	// CacheBucket is the S3 bucket backing the page cache; empty disables
	// caching.
	CacheBucket string
	CacheTTL    time.Duration
	// MaxConcurrency caps the number of page downloads in flight.
	MaxConcurrency int
}

// Client downloads and parses chess-results tournament pages.
type Client struct {
	httpClient     *http.Client
	baseURL        *url.URL
	maxConcurrency int
}

// PageResult is the outcome of fetching and parsing one tournament page.
// Err is set when the download failed or the page had no usable table; in
// both cases Records is empty.
type PageResult struct {
	URL     string
	Records []Record
	Err     error
}

// PageParser turns a downloaded document into records for sourceID.
type PageParser func(doc *goquery.Document, sourceID string) ([]Record, error)

// NewClient returns a Client whose pages are cached per cfg.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = internal.DefaultCacheTTL
	}
	return newClient(internal.NewCachedHttpClient(ctx, cfg.CacheBucket,
		cfg.CacheTTL), cfg)
}

func newClient(hc *http.Client, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = internal.BaseURL
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = internal.DefaultMaxConcurrency
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %v: %w", cfg.BaseURL, err)
	}

	return &Client{
		httpClient:     hc,
		baseURL:        base,
		maxConcurrency: cfg.MaxConcurrency,
	}, nil
}

// StartListURL returns the absolute URL of a tournament's main page, which
// carries the start list.
func (client *Client) StartListURL(tournamentURL string) (string, error) {
	u, err := client.resolve(tournamentURL)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// ResultsURL returns the absolute URL of a tournament's full results view:
// the cross table (art=5) with every row on one page.
func (client *Client) ResultsURL(tournamentURL string) (string, error) {
	u, err := client.resolve(tournamentURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("art", "5")
	q.Set("zeilen", "99999")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (client *Client) resolve(tournamentURL string) (*url.URL, error) {
	ref, err := url.Parse(tournamentURL)
	if err != nil {
		return nil, fmt.Errorf("invalid tournament url %v: %w", tournamentURL, err)
	}
	return client.baseURL.ResolveReference(ref), nil
}

// FetchResults downloads and parses the results table of every tournament.
// Results are returned in input order, one per URL.
func (client *Client) FetchResults(ctx context.Context,
	tournamentURLs []string) []PageResult {

	return client.FetchPages(ctx, tournamentURLs, client.ResultsURL,
		func(doc *goquery.Document, sourceID string) ([]Record, error) {
			return ParsePage(doc, sourceID, ResultsPage)
		})
}

// FetchStartLists downloads and parses the start list of every tournament.
// heading overrides the start list h2 text for other page languages.
func (client *Client) FetchStartLists(ctx context.Context,
	tournamentURLs []string, heading string) []PageResult {

	opts := StartListPage
	if heading != "" {
		opts.Heading = heading
	}
	return client.FetchPages(ctx, tournamentURLs, client.StartListURL,
		func(doc *goquery.Document, sourceID string) ([]Record, error) {
			return ParsePage(doc, sourceID, opts)
		})
}

// FetchPages runs one fetch+parse unit per tournament URL with at most
// MaxConcurrency units in flight. A failing unit records its error in its
// own PageResult and never cancels its siblings; the batch always runs to
// completion.
func (client *Client) FetchPages(ctx context.Context, tournamentURLs []string,
	pageURL func(string) (string, error), parse PageParser) []PageResult {

	results := make([]PageResult, len(tournamentURLs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(client.maxConcurrency)

	for i, tu := range tournamentURLs {
		i, tu := i, tu
		g.Go(func() error {
			results[i] = client.fetchOne(gctx, tu, pageURL, parse)
			return nil
		})
	}
	// units never return errors
	_ = g.Wait()

	return results
}

func (client *Client) fetchOne(ctx context.Context, tournamentURL string,
	pageURL func(string) (string, error), parse PageParser) PageResult {

	res := PageResult{URL: tournamentURL}

	full, err := pageURL(tournamentURL)
	if err != nil {
		res.Err = err
		return res
	}
	doc, err := client.fetchDoc(ctx, full)
	if err != nil {
		res.Err = fmt.Errorf("fetching %v: %w", full, err)
		return res
	}
	res.Records, res.Err = parse(doc, tournamentURL)
	if res.Err != nil {
		res.Records = nil
	}

	return res
}

// fetchDoc gets the HTML document at the given URL using the configured User-Agent.
func (client *Client) fetchDoc(ctx context.Context,
	pageURL string) (*goquery.Document, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, pageURL)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// Collect concatenates the records of all successful units in input order
// and logs a warning for every unit that contributed nothing because of an
// error.
func Collect(results []PageResult) []Record {
	var all []Record
	for _, res := range results {
		if res.Err != nil {
			log.Printf("warning: %v: %v", res.URL, res.Err)
			continue
		}
		all = append(all, res.Records...)
	}
	return all
}
