package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"radiox-catalog/pkg/db"
	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/logger"
	"radiox-catalog/pkg/normalize"
	"radiox-catalog/pkg/record"
)

// DefaultLimit is the page size used when callers pass a non-positive limit.
const DefaultLimit = 20

// Service serves normalized shows on top of a raw record source.
type Service struct {
	source     db.RecordSource
	normalizer *normalize.Normalizer
	log        *logger.Logger
}

// New creates a catalog service. A nil normalizer or logger gets a default.
func New(source db.RecordSource, n *normalize.Normalizer, log *logger.Logger) *Service {
	if n == nil {
		n = normalize.New()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{source: source, normalizer: n, log: log}
}

// Shows returns up to limit normalized shows, newest first. Store errors are returned
// as is; a record that cannot be normalized is replaced by a placeholder show.
func (s *Service) Shows(ctx context.Context, limit int) ([]domain.Show, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.source.FetchShows(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch shows: %w", err)
	}

	shows := make([]domain.Show, 0, len(rows))
	for _, row := range rows {
		shows = append(shows, s.normalize(row))
	}

	s.log.WithFields(logrus.Fields{"limit": limit, "count": len(shows)}).Debug("Loaded shows")
	return shows, nil
}

// Show returns a single normalized show, or nil without error when no row has that id.
func (s *Service) Show(ctx context.Context, id string) (*domain.Show, error) {
	row, err := s.source.FetchShowByID(ctx, id)
	if errors.Is(err, db.ErrShowNotFound) {
		s.log.WithShow(id).Debug("Show not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch show %s: %w", id, err)
	}
	if row == nil {
		return nil, nil
	}

	show := s.normalize(row)
	return &show, nil
}

// Speakers returns the speaker catalog.
func (s *Service) Speakers(ctx context.Context) (*SpeakerDirectory, error) {
	speakers, err := s.source.FetchSpeakers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch speakers: %w", err)
	}
	return NewSpeakerDirectory(speakers), nil
}

// normalize converts one row; a row that cannot be converted becomes a placeholder
// so one bad row does not sink the whole page.
func (s *Service) normalize(row record.Raw) domain.Show {
	show, report, err := s.normalizer.SafeNormalize(row)
	entry := s.log.WithShow(show.ID)
	if err != nil {
		entry.WithError(err).Error("Normalization failed, using placeholder")
		return show
	}
	entry.WithFields(logrus.Fields{
		"format":   report.Format,
		"fallback": report.Fallback,
		"segments": len(show.Segments),
	}).Debug("Normalized show")
	return show
}
