package replication

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"radiox-catalog/pkg/db"
	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/logger"
	"radiox-catalog/pkg/normalize"
	"radiox-catalog/pkg/record"
)

const (
	defaultBatchSize  = 50
	defaultNumWorkers = 4
)

// ShowStore is the archive side of a replication run. *db.Client satisfies it.
type ShowStore interface {
	SaveShow(ctx context.Context, show *domain.Show) error
	GetExistingShowIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

// EnrichFunc optionally decorates a show before it is archived.
type EnrichFunc func(ctx context.Context, show domain.Show) domain.Show

// Config wires the archiver dependencies.
type Config struct {
	Source     db.RecordSource
	Store      ShowStore
	Normalizer *normalize.Normalizer
	Logger     *logger.Logger
	Enrich     EnrichFunc

	BatchSize  int
	NumWorkers int

	// Overwrite re-saves shows that are already archived.
	Overwrite bool
}

// Stats summarizes an archive run.
type Stats struct {
	Fetched  int
	Skipped  int
	Archived int
}

// Archiver copies normalized shows from the backing store into the archive.
type Archiver struct {
	source     db.RecordSource
	store      ShowStore
	normalizer *normalize.Normalizer
	log        *logger.Logger
	enrich     EnrichFunc
	batchSize  int
	numWorkers int
	overwrite  bool
}

func NewArchiver(cfg Config) (*Archiver, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("record source is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("show store is required")
	}

	a := &Archiver{
		source:     cfg.Source,
		store:      cfg.Store,
		normalizer: cfg.Normalizer,
		log:        cfg.Logger,
		enrich:     cfg.Enrich,
		batchSize:  cfg.BatchSize,
		numWorkers: cfg.NumWorkers,
		overwrite:  cfg.Overwrite,
	}
	if a.normalizer == nil {
		a.normalizer = normalize.New()
	}
	if a.log == nil {
		a.log = logger.Discard()
	}
	if a.batchSize <= 0 {
		a.batchSize = defaultBatchSize
	}
	if a.numWorkers <= 0 {
		a.numWorkers = defaultNumWorkers
	}
	return a, nil
}

// Run fetches up to limit show rows, normalizes them and upserts the ones not yet
// archived. Batches run in parallel and the first batch error aborts the run.
func (a *Archiver) Run(ctx context.Context, limit int) (Stats, error) {
	rows, err := a.source.FetchShows(ctx, limit)
	if err != nil {
		return Stats{}, fmt.Errorf("fetch shows: %w", err)
	}

	shows := a.normalizeAll(rows)
	a.log.WithField("count", len(shows)).Info("Loaded shows, archiving in batches")

	stats, err := a.processBatches(ctx, shows)
	stats.Fetched = len(rows)
	if err != nil {
		return stats, err
	}

	a.log.WithFields(logrus.Fields{
		"fetched":  stats.Fetched,
		"skipped":  stats.Skipped,
		"archived": stats.Archived,
	}).Info("Archive complete")
	return stats, nil
}

// normalizeAll converts rows and drops duplicate ids, keeping the first occurrence.
// A row that cannot be converted is archived as a placeholder show.
func (a *Archiver) normalizeAll(rows []record.Raw) []domain.Show {
	seen := make(map[string]bool, len(rows))
	shows := make([]domain.Show, 0, len(rows))
	for _, row := range rows {
		show, _, err := a.normalizer.SafeNormalize(row)
		if err != nil {
			a.log.WithShow(show.ID).WithError(err).Error("Normalization failed, archiving placeholder")
		}
		if seen[show.ID] {
			continue
		}
		seen[show.ID] = true
		shows = append(shows, show)
	}
	return shows
}

func (a *Archiver) processBatches(ctx context.Context, shows []domain.Show) (Stats, error) {
	type batchJob struct {
		batch []domain.Show
		start int
		end   int
	}

	type batchResult struct {
		skipped  int
		archived int
		err      error
	}

	numBatches := (len(shows) + a.batchSize - 1) / a.batchSize
	jobs := make(chan batchJob, numBatches)
	results := make(chan batchResult, numBatches)

	for start := 0; start < len(shows); start += a.batchSize {
		end := calculateBatchEnd(start, a.batchSize, len(shows))
		jobs <- batchJob{batch: shows[start:end], start: start, end: end}
	}
	close(jobs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < a.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					results <- batchResult{err: ctx.Err()}
					continue
				}
				skipped, archived, err := a.processBatch(ctx, job.batch, job.start, job.end)
				results <- batchResult{skipped: skipped, archived: archived, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var stats Stats
	var firstErr error
	for result := range results {
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
				cancel()
			}
			stats.Skipped += result.skipped
			stats.Archived += result.archived
			continue
		}
		stats.Skipped += result.skipped
		stats.Archived += result.archived
	}
	return stats, firstErr
}

func calculateBatchEnd(start, batchSize, totalLen int) int {
	end := start + batchSize
	if end > totalLen {
		return totalLen
	}
	return end
}

// processBatch saves the shows of one batch that are not archived yet.
func (a *Archiver) processBatch(ctx context.Context, batch []domain.Show, start, end int) (int, int, error) {
	entry := a.log.WithFields(logrus.Fields{"batch_start": start, "batch_end": end})

	toSave := batch
	if !a.overwrite {
		existing, err := a.store.GetExistingShowIDs(ctx, showIDs(batch))
		if err != nil {
			return 0, 0, fmt.Errorf("check existing shows for batch [%d:%d]: %w", start, end, err)
		}
		toSave = filterNewShows(batch, existing)
	}
	skipped := len(batch) - len(toSave)

	if len(toSave) == 0 {
		entry.Debug("No new shows in batch")
		return skipped, 0, nil
	}

	for i := range toSave {
		show := toSave[i]
		if a.enrich != nil {
			show = a.enrich(ctx, show)
		}
		if err := a.store.SaveShow(ctx, &show); err != nil {
			return skipped, i, fmt.Errorf("archive batch [%d:%d]: %w", start, end, err)
		}
	}

	entry.WithFields(logrus.Fields{"archived": len(toSave), "skipped": skipped}).Debug("Archived batch")
	return skipped, len(toSave), nil
}

func showIDs(batch []domain.Show) []string {
	ids := make([]string, 0, len(batch))
	for _, s := range batch {
		ids = append(ids, s.ID)
	}
	return ids
}

func filterNewShows(all []domain.Show, existing map[string]bool) []domain.Show {
	out := make([]domain.Show, 0, len(all))
	for _, s := range all {
		if existing[s.ID] {
			continue
		}
		out = append(out, s)
	}
	return out
}
