package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Source Page Methods
// -----------------------------------------------------------------------------

// GetSourcePageByURL retrieves a cached page by URL
func (db *DB) GetSourcePageByURL(ctx context.Context, pageURL string) (*SourcePage, error) {
	var p SourcePage
	err := db.pool.QueryRow(ctx,
		`SELECT id, url, source_type, title, raw_html, parsed_text, content_hash,
		        http_status, fetch_status, error_message, is_permanent_failure, retry_count, retry_after,
		        fetched_at, expires_at, last_accessed_at, created_at, updated_at
		 FROM source_pages WHERE url = $1`,
		pageURL,
	).Scan(&p.ID, &p.URL, &p.SourceType, &p.Title, &p.RawHTML, &p.ParsedText, &p.ContentHash,
		&p.HTTPStatus, &p.FetchStatus, &p.ErrorMessage, &p.IsPermanentFailure, &p.RetryCount, &p.RetryAfter,
		&p.FetchedAt, &p.ExpiresAt, &p.LastAccessedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get source page: %w", err)
	}
	return &p, nil
}

// GetFreshSourcePage retrieves a page only if it's not stale and was successful
func (db *DB) GetFreshSourcePage(ctx context.Context, pageURL string, maxAge time.Duration) (*SourcePage, error) {
	page, err := db.GetSourcePageByURL(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, nil
	}

	// Check freshness
	if !page.IsFresh(maxAge) {
		return nil, nil // Stale, should re-fetch
	}

	// Only return successful pages from cache
	if page.FetchStatus != FetchStatusSuccess {
		return nil, nil
	}

	// Update last accessed time
	_ = db.TouchSourcePage(ctx, page.ID)

	return page, nil
}

// ShouldSkipURL checks if a URL should be skipped due to previous permanent failure
func (db *DB) ShouldSkipURL(ctx context.Context, pageURL string) (bool, string, error) {
	page, err := db.GetSourcePageByURL(ctx, pageURL)
	if err != nil {
		return false, "", err
	}
	if page == nil {
		return false, "", nil // Never tried, don't skip
	}

	// Skip permanently failed pages forever
	if page.IsPermanentFailure {
		reason := "permanent failure"
		if page.ErrorMessage != nil {
			reason = *page.ErrorMessage
		}
		return true, reason, nil
	}

	// Skip pages with retry_after in the future
	if page.RetryAfter != nil && time.Now().Before(*page.RetryAfter) {
		return true, "retry backoff", nil
	}

	return false, "", nil
}

// UpsertSourcePage inserts or updates a source page (for successful fetches)
func (db *DB) UpsertSourcePage(ctx context.Context, page *SourcePage) error {
	// Compute content hash if we have HTML
	var contentHash *string
	if page.RawHTML != nil {
		hash := HashContent(*page.RawHTML)
		contentHash = &hash
	}

	// Set default TTL if not provided
	expiresAt := page.ExpiresAt
	if expiresAt == nil {
		t := time.Now().Add(DefaultPageCacheTTL)
		expiresAt = &t
	}

	// Default to success status
	fetchStatus := page.FetchStatus
	if fetchStatus == "" {
		fetchStatus = FetchStatusSuccess
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO source_pages (url, source_type, title, raw_html, parsed_text, content_hash,
		                           http_status, fetch_status, error_message, is_permanent_failure,
		                           retry_count, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, NOW(), $11)
		 ON CONFLICT (url) DO UPDATE SET
		     source_type = COALESCE($2, source_pages.source_type),
		     title = COALESCE($3, source_pages.title),
		     raw_html = $4,
		     parsed_text = $5,
		     content_hash = $6,
		     http_status = $7,
		     fetch_status = $8,
		     error_message = $9,
		     is_permanent_failure = $10,
		     retry_count = 0,
		     retry_after = NULL,
		     fetched_at = NOW(),
		     expires_at = $11,
		     updated_at = NOW()
		 RETURNING id, fetched_at, created_at, updated_at`,
		page.URL, page.SourceType, page.Title, page.RawHTML, page.ParsedText, contentHash,
		page.HTTPStatus, fetchStatus, page.ErrorMessage, page.IsPermanentFailure, expiresAt,
	).Scan(&page.ID, &page.FetchedAt, &page.CreatedAt, &page.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert source page: %w", err)
	}
	return nil
}

// RecordFailedFetch records a failed fetch attempt with exponential backoff
func (db *DB) RecordFailedFetch(ctx context.Context, pageURL string, httpStatus int, errorMsg string) error {
	fetchStatus := FetchStatusFromHTTP(httpStatus)
	isPermanent := IsPermanentHTTPStatus(httpStatus)

	// Calculate retry backoff: 1 min * 5^retry_count, capped at 2 hours
	// Schedule: 1 min → 5 min → 25 min → 2 hours
	// For permanent failures, set retry_after to NULL (never retry)
	_, err := db.pool.Exec(ctx,
		`INSERT INTO source_pages (url, http_status, fetch_status, error_message, is_permanent_failure, retry_count, retry_after, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, 1,
		         CASE WHEN $5 THEN NULL ELSE NOW() + INTERVAL '1 minute' END,
		         NOW())
		 ON CONFLICT (url) DO UPDATE SET
		     http_status = $2,
		     fetch_status = $3,
		     error_message = $4,
		     is_permanent_failure = $5 OR source_pages.is_permanent_failure,
		     retry_count = source_pages.retry_count + 1,
		     retry_after = CASE
		         WHEN $5 OR source_pages.is_permanent_failure THEN NULL
		         ELSE NOW() + LEAST(
		             INTERVAL '1 minute' * POWER(5, LEAST(source_pages.retry_count, 3)),
		             INTERVAL '2 hours'
		         )
		     END,
		     fetched_at = NOW(),
		     updated_at = NOW()`,
		pageURL, httpStatus, fetchStatus, errorMsg, isPermanent,
	)
	if err != nil {
		return fmt.Errorf("failed to record failed fetch: %w", err)
	}
	return nil
}

// TouchSourcePage updates the last_accessed_at timestamp
func (db *DB) TouchSourcePage(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE source_pages SET last_accessed_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch source page: %w", err)
	}
	return nil
}

// ListFreshPagesByType retrieves all non-expired pages with the given source type
func (db *DB) ListFreshPagesByType(ctx context.Context, sourceType string, maxAge time.Duration) ([]SourcePage, error) {
	cutoff := time.Now().Add(-maxAge)

	rows, err := db.pool.Query(ctx,
		`SELECT id, url, source_type, title, parsed_text, content_hash,
		        http_status, fetch_status, error_message, is_permanent_failure, retry_count, retry_after,
		        fetched_at, expires_at, last_accessed_at, created_at, updated_at
		 FROM source_pages
		 WHERE source_type = $1 AND fetched_at > $2 AND fetch_status = $3
		 ORDER BY fetched_at DESC`,
		sourceType, cutoff, FetchStatusSuccess,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []SourcePage
	for rows.Next() {
		var p SourcePage
		// Note: raw_html intentionally omitted (large field)
		if err := rows.Scan(&p.ID, &p.URL, &p.SourceType, &p.Title, &p.ParsedText, &p.ContentHash,
			&p.HTTPStatus, &p.FetchStatus, &p.ErrorMessage, &p.IsPermanentFailure, &p.RetryCount, &p.RetryAfter,
			&p.FetchedAt, &p.ExpiresAt, &p.LastAccessedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// DeleteExpiredPages removes pages that have passed their expires_at
func (db *DB) DeleteExpiredPages(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM source_pages WHERE expires_at < NOW()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pages: %w", err)
	}
	return result.RowsAffected(), nil
}
