/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent      = "chessresults-scraper/0.3.0 (+https://github.com/mikeb26/chessresults-scraper)"
	BaseURL        = "https://chess-results.com/"
	WebCacheBucket = "bopmatic-chessresults-scraper-prod-webcache"

	// pages of finished tournaments rarely change
	DefaultCacheTTL       = 30 * 24 * time.Hour
	DefaultMaxConcurrency = 20
)
