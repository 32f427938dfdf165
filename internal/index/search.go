// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// SEARCH
// =============================================================================

// SearchResult represents a single search result
type SearchResult struct {
	SessionID    string
	UserID       string
	Title        string
	Snippet      string
	MessageCount int
	UpdatedAt    time.Time
	Rank         float64
}

// SearchOptions configures search behavior
type SearchOptions struct {
	// UserID limits results to a single user's sessions. Empty means all.
	UserID string

	// Limit caps the number of results (default 20)
	Limit int
}

// Search performs a full-text search over indexed sessions, most relevant
// first.
func (idx *HistoryIndex) Search(query string, opts *SearchOptions) ([]SearchResult, error) {
	if !idx.IsIndexed() {
		return nil, ErrNotIndexed
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if opts == nil {
		opts = &SearchOptions{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	ftsQuery := buildFTSQuery(query)

	sqlQuery := `
		SELECT s.session_id, s.user_id, s.title, s.message_count, s.updated_at,
		       snippet(sessions_fts, 1, '', '', '...', 16) AS snip,
		       rank
		FROM sessions_fts
		JOIN sessions s ON s.id = sessions_fts.rowid
		WHERE sessions_fts MATCH ?`
	args := []interface{}{ftsQuery}

	if opts.UserID != "" {
		sqlQuery += " AND s.user_id = ?"
		args = append(args, opts.UserID)
	}

	sqlQuery += " ORDER BY rank LIMIT ?"
	args = append(args, limit)

	rows, err := idx.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var updatedAt int64
		if err := rows.Scan(&r.SessionID, &r.UserID, &r.Title, &r.MessageCount,
			&updatedAt, &r.Snippet, &r.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.UpdatedAt = time.Unix(updatedAt, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

// buildFTSQuery quotes each term so user input cannot inject FTS5 syntax.
func buildFTSQuery(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, `""`)
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " ")
}
