/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"
	"strings"

	"github.com/mikeb26/chessresults-scraper/dataset"
	"github.com/mikeb26/chessresults-scraper/games"
	"github.com/spf13/cobra"
)

func newGamesCmd(opts *options) *cobra.Command {
	var force, sqlite bool

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Rebuild individual games from the downloaded results tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGames(cmd, opts, force, sqlite)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false,
		"Rebuild countries whose games file already exists")
	cmd.Flags().BoolVar(&sqlite, "sqlite", false,
		"Also write each country's games to a SQLite database")

	return cmd
}

func runGames(cmd *cobra.Command, opts *options, force bool, sqlite bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := opts.store()
	if err != nil {
		return err
	}
	countries, err := store.ResultCountries()
	if err != nil {
		return err
	}

	for _, country := range opts.selected(countries) {
		path := store.GamesPath(country)
		if dataset.Exists(path) && !force {
			fmt.Fprintf(out, "Skipping %v, games file already exists.\n", country)
			continue
		}

		cols, records, err := store.LoadRecords(store.ResultsPath(country))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Loaded %d rows for %v\n", len(records), country)

		probe := games.NewResultsTable(cols, nil)
		if missing := probe.MissingColumns(); len(missing) > 0 {
			fmt.Fprintf(out, "Skipping %v, no %v column.\n", country,
				strings.Join(missing, "/"))
			continue
		}

		tables := games.SplitByTournament(cols, records, games.DefaultSchema)
		gameList := games.BuildAllGames(tables)

		if err := store.SaveGames(path, gameList); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %d games from %d tournaments to %v\n",
			len(gameList), len(tables), path)

		if sqlite {
			dbPath := store.GamesDBPath(country)
			if err := dataset.ExportGamesSQLite(ctx, dbPath, gameList); err != nil {
				return fmt.Errorf("exporting %v: %w", dbPath, err)
			}
			fmt.Fprintf(out, "Exported %d games to %v\n", len(gameList), dbPath)
		}
	}

	return nil
}

func newShowCmd(opts *options) *cobra.Command {
	var tournament, player string
	var round int
	var sqlite bool

	cmd := &cobra.Command{
		Use:   "show <country>",
		Short: "Print the rebuilt games of one country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameList, err := loadCountryGames(cmd, opts, args[0], sqlite)
			if err != nil {
				return err
			}

			gameList = filterGames(gameList, tournament, player, round)
			if len(gameList) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No games found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), games.FormatGames(gameList))
			return nil
		},
	}
	cmd.Flags().StringVar(&tournament, "tournament", "",
		"Only games whose tournament URL contains this text")
	cmd.Flags().StringVar(&player, "player", "",
		"Only games with a player whose name contains this text (case-insensitive)")
	cmd.Flags().IntVar(&round, "round", 0, "Only games of this round")
	cmd.Flags().BoolVar(&sqlite, "sqlite", false,
		"Read the games from the SQLite export written by games --sqlite")

	return cmd
}

func loadCountryGames(cmd *cobra.Command, opts *options, country string,
	sqlite bool) ([]games.GameRecord, error) {

	store, err := opts.store()
	if err != nil {
		return nil, err
	}

	path := store.GamesPath(country)
	if sqlite {
		path = store.GamesDBPath(country)
	}
	if !dataset.Exists(path) {
		available, err := store.GameCountries()
		if err != nil {
			return nil, err
		}
		if len(available) == 0 {
			return nil, fmt.Errorf("no games for %v; run games first", country)
		}
		return nil, fmt.Errorf("no games for %v; countries with games: %v",
			country, strings.Join(available, ", "))
	}

	if sqlite {
		return dataset.LoadGamesSQLite(cmd.Context(), path)
	}
	return store.LoadGames(path)
}

func filterGames(gameList []games.GameRecord, tournament string,
	player string, round int) []games.GameRecord {

	player = strings.ToLower(player)
	var out []games.GameRecord
	for _, g := range gameList {
		if tournament != "" && !strings.Contains(g.TournamentURL, tournament) {
			continue
		}
		if round > 0 && g.Round != round {
			continue
		}
		if player != "" &&
			!strings.Contains(strings.ToLower(g.White.Name), player) &&
			!strings.Contains(strings.ToLower(g.Black.Name), player) {
			continue
		}
		out = append(out, g)
	}
	return out
}
