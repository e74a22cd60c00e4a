package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
	"shortlink/internal/shortener"
	"shortlink/internal/validation"
)

var (
	ErrURLRequired  = validation.ErrEmptyURL
	ErrLinkNotFound = errors.New("link not found")
)

// Visit logging outlives the request so a client that disconnects after
// the lookup still leaves its visit behind.
const visitLogTimeout = 5 * time.Second

const (
	MetricLinksCreated   = "links_created"
	MetricRedirects      = "redirects"
	MetricLinkNotFound   = "link_not_found"
	MetricVisitLogFailed = "visit_log_failed"
	MetricGeoLookupEmpty = "geo_lookup_empty"
)

type LinkService struct {
	repo        Repository
	codes       CodeGenerator
	geo         GeoLocator
	recorder    BusinessRecorder
	logger      *slog.Logger
	maxAttempts int
	now         func() time.Time
}

func NewLinkService(
	repo Repository,
	codes CodeGenerator,
	geo GeoLocator,
	recorder BusinessRecorder,
	logger *slog.Logger,
	maxAttempts int,
) *LinkService {
	return &LinkService{
		repo:        repo,
		codes:       codes,
		geo:         geo,
		recorder:    recorder,
		logger:      logger,
		maxAttempts: max(1, maxAttempts),
		now:         time.Now,
	}
}

// Shorten stores originalURL under a fresh code and returns the short URL
// built on baseURL.
func (s *LinkService) Shorten(ctx context.Context, originalURL, baseURL string) (*domain.ShortenResponse, error) {
	if strings.TrimSpace(originalURL) == "" {
		return nil, ErrURLRequired
	}

	for range s.maxAttempts {
		code, err := s.codes.Code(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}

		link := &domain.Link{
			OriginalURL: originalURL,
			ShortCode:   code,
			CreatedAt:   s.now().UTC(),
		}

		err = s.repo.InsertLink(ctx, link)
		if errors.Is(err, repository.ErrDuplicateCode) {
			s.logger.Warn("short code taken concurrently, regenerating", slog.String("short_code", code))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create link: %w", err)
		}

		s.recorder.RecordBusiness(MetricLinksCreated, 1, nil)

		return &domain.ShortenResponse{
			ShortURL:    strings.TrimRight(baseURL, "/") + "/" + code,
			ShortCode:   code,
			OriginalURL: originalURL,
		}, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", shortener.ErrCodeSpaceExhausted, s.maxAttempts)
}

// ResolveAndLog returns the original URL for code and records the visit.
// Geolocation and visit persistence failures never fail the redirect.
func (s *LinkService) ResolveAndLog(ctx context.Context, code, visitorIP, userAgent string) (string, error) {
	link, err := s.findLink(ctx, code)
	if err != nil {
		return "", err
	}

	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), visitLogTimeout)
	defer cancel()

	location := s.geo.Lookup(logCtx, visitorIP)
	if location.IsEmpty() {
		s.recorder.RecordBusiness(MetricGeoLookupEmpty, 1, nil)
	}

	if userAgent == "" {
		userAgent = domain.UnknownUserAgent
	}

	visit := &domain.Visit{
		LinkID:    link.ID,
		IP:        visitorIP,
		UserAgent: userAgent,
		Location:  location,
		VisitedAt: s.now().UTC(),
	}
	if err := s.repo.InsertVisit(logCtx, visit); err != nil {
		s.logger.Error("failed to log visit",
			slog.String("short_code", code),
			slog.Int64("link_id", link.ID),
			slog.String("error", err.Error()))
		s.recorder.RecordBusiness(MetricVisitLogFailed, 1, map[string]string{"short_code": code})
	}

	s.recorder.RecordBusiness(MetricRedirects, 1, map[string]string{"short_code": code})
	return link.OriginalURL, nil
}

// ListVisits returns every visit of the link behind code, oldest first.
func (s *LinkService) ListVisits(ctx context.Context, code string) ([]domain.Visit, error) {
	link, err := s.findLink(ctx, code)
	if err != nil {
		return nil, err
	}

	visits, err := s.repo.FindVisitsByLinkID(ctx, link.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	if visits == nil {
		visits = []domain.Visit{}
	}
	return visits, nil
}

func (s *LinkService) findLink(ctx context.Context, code string) (*domain.Link, error) {
	link, err := s.repo.FindLinkByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		s.recorder.RecordBusiness(MetricLinkNotFound, 1, nil)
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return link, nil
}
