package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/httpclient"
	"radiox-catalog/pkg/logger"
)

// PageFetcher downloads a page body. *httpclient.HTTPClient satisfies it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Config configures an Enricher.
type Config struct {
	Fetcher    PageFetcher
	Logger     *logger.Logger
	MaxRetries uint64

	// InitialInterval is the first retry delay. Zero uses the backoff default.
	InitialInterval time.Duration

	// Concurrency bounds parallel page fetches per show. Zero means 4.
	Concurrency int
	// RequestsPerMinute throttles page fetches across shows. Zero means unlimited.
	RequestsPerMinute int
}

const defaultConcurrency = 4

// Enricher fills missing article metadata of segments from their source pages.
type Enricher struct {
	fetcher         PageFetcher
	log             *logger.Logger
	maxRetries      uint64
	initialInterval time.Duration
	concurrency     int
	limiter         *rate.Limiter
}

// New creates an Enricher. Without a fetcher it uses a browser-profile http client.
func New(cfg Config) *Enricher {
	e := &Enricher{
		fetcher:         cfg.Fetcher,
		log:             cfg.Logger,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		concurrency:     cfg.Concurrency,
		limiter:         rate.NewLimiter(rate.Inf, 1),
	}
	if e.concurrency <= 0 {
		e.concurrency = defaultConcurrency
	}
	if cfg.RequestsPerMinute > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	if e.fetcher == nil {
		e.fetcher = httpclient.NewClient(httpclient.BrowserClient, 0)
	}
	if e.log == nil {
		e.log = logger.Discard()
	}
	return e
}

// Metadata is what a source page tells about its article.
type Metadata struct {
	Title       string
	Description string
	ImageURL    string
	SiteName    string
	PublishedAt string
}

// EnrichShow returns a copy of show whose segments have their missing article
// title, description and image filled in from the source page. Segments that
// already carry all three, or have no source URL, are left alone, as are
// segments whose page cannot be fetched or parsed.
func (e *Enricher) EnrichShow(ctx context.Context, show domain.Show) domain.Show {
	if len(show.Segments) == 0 {
		return show
	}

	segments := make([]domain.Segment, len(show.Segments))
	copy(segments, show.Segments)
	show.Segments = segments

	pages := e.fetchPages(ctx, show.ID, segments)
	for i := range segments {
		if meta := pages[segments[i].SourceURL]; meta != nil && needsEnrichment(segments[i]) {
			apply(&segments[i], meta)
		}
	}
	return show
}

// fetchPages fetches every distinct source URL the segments need, at most
// e.concurrency at a time. Failed pages are logged and left out of the result.
func (e *Enricher) fetchPages(ctx context.Context, showID string, segments []domain.Segment) map[string]*Metadata {
	var (
		mu    sync.Mutex
		pages = make(map[string]*Metadata)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	seen := make(map[string]bool)
	for _, seg := range segments {
		if !needsEnrichment(seg) || seen[seg.SourceURL] {
			continue
		}
		seen[seg.SourceURL] = true

		pageURL := seg.SourceURL
		g.Go(func() error {
			if err := e.limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
			meta, err := e.Page(gctx, pageURL)
			if err != nil {
				e.log.WithShow(showID).WithField("url", pageURL).
					WithError(err).Warn("Article enrichment failed")
				return nil
			}
			mu.Lock()
			pages[pageURL] = meta
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.log.WithShow(showID).WithError(err).Warn("Article enrichment stopped")
	}
	return pages
}

func needsEnrichment(seg domain.Segment) bool {
	if !strings.HasPrefix(seg.SourceURL, "http://") && !strings.HasPrefix(seg.SourceURL, "https://") {
		return false
	}
	return seg.ArticleImageURL == "" || seg.ArticleTitle == "" || seg.ArticleDescription == ""
}

func apply(seg *domain.Segment, meta *Metadata) {
	if seg.ArticleImageURL == "" {
		seg.ArticleImageURL = meta.ImageURL
	}
	if seg.ArticleTitle == "" {
		seg.ArticleTitle = meta.Title
	}
	if seg.ArticleDescription == "" {
		seg.ArticleDescription = meta.Description
	}
	if seg.SourceName == "" {
		seg.SourceName = meta.SiteName
	}
	if seg.SourcePublishedAt == "" {
		seg.SourcePublishedAt = meta.PublishedAt
	}
}

// Page fetches pageURL, retrying transient failures, and extracts its metadata.
func (e *Enricher) Page(ctx context.Context, pageURL string) (*Metadata, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	var body []byte
	op := func() error {
		b, err := e.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			var statusErr *httpclient.StatusError
			if errors.As(err, &statusErr) && !statusErr.Temporary() {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	if e.initialInterval > 0 {
		bo.InitialInterval = e.initialInterval
	}
	bo.MaxElapsedTime = time.Minute
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, e.maxRetries), ctx)); err != nil {
		return nil, err
	}

	return Extract(body, parsed)
}

// Extract reads article metadata from an HTML page. Readability results take
// precedence; Open Graph and standard meta tags fill the gaps.
func Extract(html []byte, pageURL *url.URL) (*Metadata, error) {
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := &Metadata{}
	if article, err := readability.FromReader(bytes.NewReader(html), pageURL); err == nil {
		meta.Title = strings.TrimSpace(article.Title)
		meta.Description = strings.TrimSpace(article.Excerpt)
		meta.ImageURL = strings.TrimSpace(article.Image)
		meta.SiteName = strings.TrimSpace(article.SiteName)
	}

	fillString(&meta.Title,
		metaContent(doc, "meta[property='og:title']"),
		metaContent(doc, "meta[name='twitter:title']"),
		strings.TrimSpace(doc.Find("title").First().Text()),
		strings.TrimSpace(doc.Find("h1").First().Text()),
	)
	fillString(&meta.Description,
		metaContent(doc, "meta[property='og:description']"),
		metaContent(doc, "meta[name='description']"),
		metaContent(doc, "meta[name='twitter:description']"),
	)
	fillString(&meta.ImageURL,
		metaContent(doc, "meta[property='og:image']"),
		metaContent(doc, "meta[property='og:image:url']"),
		metaContent(doc, "meta[name='twitter:image']"),
		attr(doc, "link[rel='image_src']", "href"),
	)
	fillString(&meta.SiteName, metaContent(doc, "meta[property='og:site_name']"))
	fillString(&meta.PublishedAt,
		metaContent(doc, "meta[property='article:published_time']"),
		attr(doc, "time[datetime]", "datetime"),
	)

	meta.ImageURL = absolute(pageURL, meta.ImageURL)

	if *meta == (Metadata{}) {
		return nil, fmt.Errorf("no article metadata found")
	}
	return meta, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	return attr(doc, selector, "content")
}

func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

func fillString(dst *string, candidates ...string) {
	if *dst != "" {
		return
	}
	for _, c := range candidates {
		if c != "" {
			*dst = c
			return
		}
	}
}

func absolute(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
