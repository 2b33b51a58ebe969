/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mikeb26/chessresults-scraper/games"
	_ "modernc.org/sqlite"
)

const gamesSchema = `
	CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tournament_url TEXT NOT NULL,
		round INTEGER NOT NULL,
		white_start_number INTEGER NOT NULL,
		white_fed TEXT NOT NULL,
		white_name TEXT NOT NULL,
		white_rating TEXT NOT NULL,
		black_start_number INTEGER NOT NULL,
		black_fed TEXT NOT NULL,
		black_name TEXT NOT NULL,
		black_rating TEXT NOT NULL,
		result TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS games_by_tournament
		ON games (tournament_url, round);
	CREATE INDEX IF NOT EXISTS games_by_white ON games (white_name);
	CREATE INDEX IF NOT EXISTS games_by_black ON games (black_name);
`

// OpenGamesDB opens (creating if needed) a SQLite games database.
func OpenGamesDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, gamesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// ExportGamesSQLite replaces the contents of the games table in the
// database at path with gameList in a single transaction.
func ExportGamesSQLite(ctx context.Context, path string,
	gameList []games.GameRecord) error {

	db, err := OpenGamesDB(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM games"); err != nil {
		return fmt.Errorf("failed to clear games: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (tournament_url, round,
			white_start_number, white_fed, white_name, white_rating,
			black_start_number, black_fed, black_name, black_rating,
			result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare games statement: %w", err)
	}
	defer stmt.Close()

	for _, g := range gameList {
		_, err := stmt.ExecContext(ctx, g.TournamentURL, g.Round,
			g.White.StartNumber, g.White.Fed, g.White.Name, g.White.Rating,
			g.Black.StartNumber, g.Black.Fed, g.Black.Name, g.Black.Rating,
			g.Result)
		if err != nil {
			return fmt.Errorf("failed to insert game: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadGamesSQLite reads back the games stored by ExportGamesSQLite in
// insertion order.
func LoadGamesSQLite(ctx context.Context, path string) ([]games.GameRecord, error) {
	db, err := OpenGamesDB(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT tournament_url, round,
			white_start_number, white_fed, white_name, white_rating,
			black_start_number, black_fed, black_name, black_rating,
			result
		FROM games ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	gameList := make([]games.GameRecord, 0)
	for rows.Next() {
		var g games.GameRecord
		err := rows.Scan(&g.TournamentURL, &g.Round,
			&g.White.StartNumber, &g.White.Fed, &g.White.Name, &g.White.Rating,
			&g.Black.StartNumber, &g.Black.Fed, &g.Black.Name, &g.Black.Rating,
			&g.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		gameList = append(gameList, g)
	}

	return gameList, rows.Err()
}
