/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mikeb26/chessresults-scraper/chessresults"
	"github.com/mikeb26/chessresults-scraper/dataset"
	"github.com/mikeb26/chessresults-scraper/internal"
	"github.com/spf13/cobra"
)

const (
	envDataDir     = "CRSCRAPE_DATA_DIR"
	envCacheBucket = "CRSCRAPE_CACHE_BUCKET"
	envConcurrency = "CRSCRAPE_CONCURRENCY"
)

// options holds the flags shared by every subcommand.
type options struct {
	dataDir     string
	baseURL     string
	cacheBucket string
	sharedCache bool
	cacheTTL    time.Duration
	concurrency int
	countries   []string
}

func main() {
	// a missing .env is fine; the environment is used as is
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "crscrape",
		Short: "Scrape chess-results.com tournaments and rebuild individual games",
		Long: `crscrape collects tournaments from chess-results.com into a local data
directory in stages:

  search      record tournaments from saved search result pages
  startlists  download each tournament's start list
  results     download each tournament's full results table
  games       rebuild White/Black games from the results tables
  show        print the games of one country

Every per-country output file that already exists is skipped, so an
interrupted run can simply be restarted.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.dataDir, "data-dir", envOr(envDataDir, "data"),
		"Data directory (or env: "+envDataDir+")")
	pf.StringVar(&opts.baseURL, "base-url", internal.BaseURL,
		"Base URL tournament links are resolved against")
	pf.StringVar(&opts.cacheBucket, "cache-bucket", os.Getenv(envCacheBucket),
		"S3 bucket for the page cache; empty disables caching (or env: "+envCacheBucket+")")
	pf.BoolVar(&opts.sharedCache, "shared-cache", false,
		"Use the shared "+internal.WebCacheBucket+" bucket when --cache-bucket is unset")
	pf.DurationVar(&opts.cacheTTL, "cache-ttl", internal.DefaultCacheTTL,
		"How long downloaded pages stay fresh in the cache")
	pf.IntVar(&opts.concurrency, "concurrency",
		envIntOr(envConcurrency, internal.DefaultMaxConcurrency),
		"Maximum number of page downloads in flight (or env: "+envConcurrency+")")
	pf.StringSliceVar(&opts.countries, "country", nil,
		"Only process these country codes (repeatable)")

	cmd.AddCommand(
		newSearchCmd(opts),
		newStartListsCmd(opts),
		newResultsCmd(opts),
		newGamesCmd(opts),
		newShowCmd(opts),
	)

	return cmd
}

func envOr(key string, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (opts *options) store() (*dataset.Store, error) {
	store, err := dataset.NewStore(opts.dataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing data directory: %w", err)
	}
	return store, nil
}

func (opts *options) client(ctx context.Context) (*chessresults.Client, error) {
	bucket := opts.cacheBucket
	if bucket == "" && opts.sharedCache {
		bucket = internal.WebCacheBucket
	}
	return chessresults.NewClient(ctx, chessresults.Config{
		BaseURL:        opts.baseURL,
		CacheBucket:    bucket,
		CacheTTL:       opts.cacheTTL,
		MaxConcurrency: opts.concurrency,
	})
}

// selected filters countries down to the --country list, if one was given.
func (opts *options) selected(countries []string) []string {
	if len(opts.countries) == 0 {
		return countries
	}
	want := make(map[string]bool)
	for _, c := range opts.countries {
		want[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	var out []string
	for _, c := range countries {
		if want[strings.ToUpper(c)] {
			out = append(out, c)
		}
	}
	return out
}
