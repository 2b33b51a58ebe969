/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mikeb26/chessresults-scraper/chessresults"
	"github.com/mikeb26/chessresults-scraper/dataset"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <saved-search-page.html>...",
		Short: "Record tournaments listed on saved search result pages",
		Long: `Parses tournament search result pages saved from chess-results.com and
appends the tournaments they list to tournaments.csv in the data directory.

The site returns at most 2000 tournaments per search. When a page is full
the end date to use for the next search window is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args)
		},
	}
}

func runSearch(cmd *cobra.Command, opts *options, files []string) error {
	store, err := opts.store()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		refs, err := readSearchPage(file)
		if err != nil {
			return err
		}
		if err := store.AppendTournaments(refs); err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded %d tournaments from %v\n", len(refs), file)

		if end, ok := chessresults.NextSearchEnd(refs); ok {
			fmt.Fprintf(out, "%v returned a full page; search again with end date %v\n",
				file, chessresults.FormatSearchDate(end))
		}
	}

	return nil
}

func readSearchPage(file string) ([]chessresults.TournamentRef, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	refs, err := chessresults.ParseSearchResultsReader(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	return refs, nil
}

func newStartListsCmd(opts *options) *cobra.Command {
	var heading string

	cmd := &cobra.Command{
		Use:   "startlists",
		Short: "Download the start list of every recorded tournament",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetchStage(cmd, opts, fetchStage{
				what:    "start lists",
				path:    (*dataset.Store).StartListPath,
				sources: discoveredTournaments,
				fetch: func(ctx context.Context, client *chessresults.Client,
					urls []string) []chessresults.PageResult {

					return client.FetchStartLists(ctx, urls, heading)
				},
			})
		},
	}
	cmd.Flags().StringVar(&heading, "heading", chessresults.StartListHeading,
		"Heading printed above the start list in the page language")

	return cmd
}

func newResultsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Download the full results table of every recorded tournament",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetchStage(cmd, opts, fetchStage{
				what:    "results",
				path:    (*dataset.Store).ResultsPath,
				sources: startListTournaments,
				fetch: func(ctx context.Context, client *chessresults.Client,
					urls []string) []chessresults.PageResult {

					return client.FetchResults(ctx, urls)
				},
			})
		},
	}
}

// fetchStage is one per-country download stage.
type fetchStage struct {
	what string
	path func(store *dataset.Store, country string) string
	// sources maps each country to the tournament URLs the stage fetches.
	sources func(store *dataset.Store) (map[string][]string, error)
	fetch   func(ctx context.Context, client *chessresults.Client,
		urls []string) []chessresults.PageResult
}

func discoveredTournaments(store *dataset.Store) (map[string][]string, error) {
	refs, err := store.LoadTournaments()
	if err != nil {
		return nil, fmt.Errorf("no tournaments recorded yet, run search first: %w", err)
	}
	return chessresults.GroupURLsByCountry(refs), nil
}

// startListTournaments limits the results stage to tournaments whose start
// list was downloaded and parsed.
func startListTournaments(store *dataset.Store) (map[string][]string, error) {
	countries, err := store.StartListCountries()
	if err != nil {
		return nil, err
	}

	byCountry := make(map[string][]string)
	for _, country := range countries {
		urls, err := store.TournamentURLs(store.StartListPath(country))
		if err != nil {
			return nil, err
		}
		if len(urls) > 0 {
			byCountry[country] = urls
		}
	}
	return byCountry, nil
}

func runFetchStage(cmd *cobra.Command, opts *options, stage fetchStage) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := opts.store()
	if err != nil {
		return err
	}
	byCountry, err := stage.sources(store)
	if err != nil {
		return err
	}
	if len(byCountry) == 0 {
		fmt.Fprintf(out, "No tournaments to fetch %v for.\n", stage.what)
		return nil
	}

	client, err := opts.client(ctx)
	if err != nil {
		return err
	}

	for _, country := range opts.selected(chessresults.SortedCountries(byCountry)) {
		path := stage.path(store, country)
		if dataset.Exists(path) {
			fmt.Fprintf(out, "Skipping %v, %v already exists.\n", country, path)
			continue
		}

		urls := byCountry[country]
		log.Printf("fetching %v of %d %v tournaments", stage.what, len(urls), country)

		results := stage.fetch(ctx, client, urls)
		if err := ctx.Err(); err != nil {
			// a cancelled batch is incomplete; leave the country unfinished
			return err
		}
		records := chessresults.Collect(results)

		if err := store.SaveRecords(path, records); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %d rows from %d/%d tournaments to %v\n",
			len(records), succeeded(results), len(results), path)
	}

	return nil
}

func succeeded(results []chessresults.PageResult) int {
	n := 0
	for _, res := range results {
		if res.Err == nil {
			n++
		}
	}
	return n
}
