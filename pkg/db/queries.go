package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/record"
)

const (
	showsTable    = "shows"
	speakersTable = "speakers"

	// Rows are read as JSON so the schema can drift without touching the queries.
	selectShowsQuery = `
SELECT row_to_json(s)
FROM shows s
ORDER BY s.created_at DESC NULLS LAST
LIMIT $1`

	selectShowByIDQuery = `
SELECT row_to_json(s)
FROM shows s
WHERE s.id::text = $1
LIMIT 1`

	selectSpeakersQuery = `
SELECT row_to_json(sp)
FROM speakers sp`
)

var speakerAvatarKeys = []string{"avatar_url", "image_url", "avatar"}

// queryRecords runs a row_to_json query and decodes every row into a record.
func queryRecords(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]record.Raw, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres DB not connected")
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []record.Raw
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}

func decodeRecord(data []byte) (record.Raw, error) {
	var r record.Raw
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

func fetchShowsSQL(ctx context.Context, db *sql.DB, limit int) ([]record.Raw, error) {
	return queryRecords(ctx, db, selectShowsQuery, limit)
}

func fetchShowByIDSQL(ctx context.Context, db *sql.DB, id string) (record.Raw, error) {
	rows, err := queryRecords(ctx, db, selectShowByIDQuery, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrShowNotFound
	}
	return rows[0], nil
}

func fetchSpeakersSQL(ctx context.Context, db *sql.DB) ([]domain.Speaker, error) {
	rows, err := queryRecords(ctx, db, selectSpeakersQuery)
	if err != nil {
		return nil, err
	}
	return speakersFromRecords(rows), nil
}

// speakersFromRecords maps speaker rows, skipping rows without a name.
func speakersFromRecords(rows []record.Raw) []domain.Speaker {
	out := make([]domain.Speaker, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(record.String(record.Resolve(r, "name")))
		if name == "" {
			continue
		}
		out = append(out, domain.Speaker{
			Name:      name,
			AvatarURL: record.String(record.Resolve(r, speakerAvatarKeys...)),
		})
	}
	return out
}
