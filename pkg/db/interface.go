package db

import (
	"context"
	"errors"

	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/record"
)

// ErrShowNotFound is returned when a show id matches no row.
var ErrShowNotFound = errors.New("show not found")

// RecordSource retrieves raw show rows and the speaker catalog from the backing store.
// Rows are returned untouched; normalization happens downstream.
type RecordSource interface {
	FetchShows(ctx context.Context, limit int) ([]record.Raw, error)
	FetchShowByID(ctx context.Context, id string) (record.Raw, error)
	FetchSpeakers(ctx context.Context) ([]domain.Speaker, error)
}

var (
	_ RecordSource = (*PostgresClient)(nil)
	_ RecordSource = (*SupabaseClient)(nil)
)
