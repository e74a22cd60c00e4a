package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
	"shortlink/internal/service"
	"shortlink/internal/service/mocks"
	"shortlink/internal/shortener"
)

type serviceMocks struct {
	repo     *mocks.MockRepository
	codes    *mocks.MockCodeGenerator
	geo      *mocks.MockGeoLocator
	recorder *mocks.MockBusinessRecorder
}

func newTestService(t *testing.T, maxAttempts int) (*service.LinkService, serviceMocks) {
	m := serviceMocks{
		repo:     mocks.NewMockRepository(t),
		codes:    mocks.NewMockCodeGenerator(t),
		geo:      mocks.NewMockGeoLocator(t),
		recorder: mocks.NewMockBusinessRecorder(t),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewLinkService(m.repo, m.codes, m.geo, m.recorder, logger, maxAttempts), m
}

func captureMetrics(recorder *mocks.MockBusinessRecorder) *[]string {
	var names []string
	recorder.EXPECT().RecordBusiness(mock.Anything, mock.Anything, mock.Anything).
		Run(func(name string, value float64, labels map[string]string) {
			names = append(names, name)
		}).Return().Maybe()
	return &names
}

// Shorten tests

func TestShorten_Success(t *testing.T) {
	svc, m := newTestService(t, 3)
	m.codes.EXPECT().Code(mock.Anything).Return("aB3xY9", nil).Once()
	m.repo.EXPECT().InsertLink(mock.Anything, mock.MatchedBy(func(l *domain.Link) bool {
		return l.ShortCode == "aB3xY9" &&
			l.OriginalURL == "https://example.com/long" &&
			l.CreatedAt.Location() == time.UTC &&
			!l.CreatedAt.IsZero()
	})).Return(nil).Once()
	m.recorder.EXPECT().RecordBusiness(service.MetricLinksCreated, float64(1), mock.Anything).Return().Once()

	resp, err := svc.Shorten(context.Background(), "https://example.com/long", "http://sho.rt/")
	require.NoError(t, err)

	assert.Equal(t, "aB3xY9", resp.ShortCode)
	assert.Equal(t, "http://sho.rt/aB3xY9", resp.ShortURL)
	assert.Equal(t, "https://example.com/long", resp.OriginalURL)
}

func TestShorten_EmptyURL(t *testing.T) {
	for _, url := range []string{"", "   "} {
		svc, _ := newTestService(t, 3)

		_, err := svc.Shorten(context.Background(), url, "http://sho.rt")
		assert.ErrorIs(t, err, service.ErrURLRequired)
	}
}

func TestShorten_GenerateError(t *testing.T) {
	expectedErr := errors.New("store unavailable")

	svc, m := newTestService(t, 3)
	m.codes.EXPECT().Code(mock.Anything).Return("", expectedErr).Once()

	_, err := svc.Shorten(context.Background(), "https://example.com", "http://sho.rt")
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
}

func TestShorten_RetriesOnDuplicateCode(t *testing.T) {
	svc, m := newTestService(t, 3)
	m.codes.EXPECT().Code(mock.Anything).Return("raced1", nil).Once()
	m.codes.EXPECT().Code(mock.Anything).Return("fresh2", nil).Once()
	m.repo.EXPECT().InsertLink(mock.Anything, mock.MatchedBy(func(l *domain.Link) bool {
		return l.ShortCode == "raced1"
	})).Return(repository.ErrDuplicateCode).Once()
	m.repo.EXPECT().InsertLink(mock.Anything, mock.MatchedBy(func(l *domain.Link) bool {
		return l.ShortCode == "fresh2"
	})).Return(nil).Once()
	m.recorder.EXPECT().RecordBusiness(service.MetricLinksCreated, float64(1), mock.Anything).Return().Once()

	resp, err := svc.Shorten(context.Background(), "https://example.com", "http://sho.rt")
	require.NoError(t, err)
	assert.Equal(t, "fresh2", resp.ShortCode)
	assert.Equal(t, "http://sho.rt/fresh2", resp.ShortURL)
}

func TestShorten_DuplicateCodeExhausted(t *testing.T) {
	svc, m := newTestService(t, 2)
	m.codes.EXPECT().Code(mock.Anything).Return("raced1", nil).Times(2)
	m.repo.EXPECT().InsertLink(mock.Anything, mock.Anything).Return(repository.ErrDuplicateCode).Times(2)

	_, err := svc.Shorten(context.Background(), "https://example.com", "http://sho.rt")
	assert.ErrorIs(t, err, shortener.ErrCodeSpaceExhausted)
}

func TestShorten_InsertError(t *testing.T) {
	expectedErr := errors.New("insert error")

	svc, m := newTestService(t, 3)
	m.codes.EXPECT().Code(mock.Anything).Return("abc123", nil).Once()
	m.repo.EXPECT().InsertLink(mock.Anything, mock.Anything).Return(expectedErr).Once()

	_, err := svc.Shorten(context.Background(), "https://example.com", "http://sho.rt")
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
}

// ResolveAndLog tests

func TestResolveAndLog_Success(t *testing.T) {
	location := domain.Location{Status: "success", Country: "Germany", CountryCode: "DE", City: "Berlin"}

	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").
		Return(&domain.Link{ID: 7, OriginalURL: "https://example.com/dest", ShortCode: "abc123"}, nil).Once()
	m.geo.EXPECT().Lookup(mock.Anything, "8.8.8.8").Return(location).Once()

	var stored *domain.Visit
	m.repo.EXPECT().InsertVisit(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, visit *domain.Visit) {
			stored = visit
		}).Return(nil).Once()
	m.recorder.EXPECT().RecordBusiness(service.MetricRedirects, float64(1), map[string]string{"short_code": "abc123"}).Return().Once()

	before := time.Now().UTC()
	target, err := svc.ResolveAndLog(context.Background(), "abc123", "8.8.8.8", "Mozilla/5.0")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dest", target)

	require.NotNil(t, stored)
	assert.Equal(t, int64(7), stored.LinkID)
	assert.Equal(t, "8.8.8.8", stored.IP)
	assert.Equal(t, "Mozilla/5.0", stored.UserAgent)
	assert.Equal(t, location, stored.Location)
	assert.Equal(t, time.UTC, stored.VisitedAt.Location())
	assert.False(t, stored.VisitedAt.Before(before))
}

func TestResolveAndLog_MissingUserAgent(t *testing.T) {
	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").
		Return(&domain.Link{ID: 1, OriginalURL: "https://example.com"}, nil).Once()
	m.geo.EXPECT().Lookup(mock.Anything, "8.8.8.8").Return(domain.Location{Status: "success"}).Once()
	m.repo.EXPECT().InsertVisit(mock.Anything, mock.MatchedBy(func(v *domain.Visit) bool {
		return v.UserAgent == domain.UnknownUserAgent
	})).Return(nil).Once()
	captureMetrics(m.recorder)

	_, err := svc.ResolveAndLog(context.Background(), "abc123", "8.8.8.8", "")
	require.NoError(t, err)
}

func TestResolveAndLog_ClientGoneDuringLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").
		Return(&domain.Link{ID: 4, OriginalURL: "https://example.com"}, nil).Once()
	m.geo.EXPECT().Lookup(mock.Anything, "8.8.8.8").
		RunAndReturn(func(context.Context, string) domain.Location {
			cancel()
			return domain.Location{Status: "success", CountryCode: "NL"}
		}).Once()
	m.repo.EXPECT().InsertVisit(mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return ctx.Err() == nil && hasDeadline
	}), mock.Anything).Return(nil).Once()
	captureMetrics(m.recorder)

	target, err := svc.ResolveAndLog(ctx, "abc123", "8.8.8.8", "curl/8.0")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", target)
}

func TestResolveAndLog_NotFound(t *testing.T) {
	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "nope00").Return(nil, repository.ErrNotFound).Once()
	m.recorder.EXPECT().RecordBusiness(service.MetricLinkNotFound, float64(1), mock.Anything).Return().Once()

	_, err := svc.ResolveAndLog(context.Background(), "nope00", "8.8.8.8", "curl/8.0")
	assert.ErrorIs(t, err, service.ErrLinkNotFound)
}

func TestResolveAndLog_StoreError(t *testing.T) {
	expectedErr := errors.New("db error")

	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").Return(nil, expectedErr).Once()

	_, err := svc.ResolveAndLog(context.Background(), "abc123", "8.8.8.8", "curl/8.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.NotErrorIs(t, err, service.ErrLinkNotFound)
}

func TestResolveAndLog_EmptyLocation(t *testing.T) {
	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").
		Return(&domain.Link{ID: 3, OriginalURL: "https://example.com"}, nil).Once()
	m.geo.EXPECT().Lookup(mock.Anything, "10.0.0.1").Return(domain.Location{}).Once()
	m.repo.EXPECT().InsertVisit(mock.Anything, mock.MatchedBy(func(v *domain.Visit) bool {
		return v.Location.IsEmpty()
	})).Return(nil).Once()
	names := captureMetrics(m.recorder)

	target, err := svc.ResolveAndLog(context.Background(), "abc123", "10.0.0.1", "curl/8.0")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", target)
	assert.Equal(t, []string{service.MetricGeoLookupEmpty, service.MetricRedirects}, *names)
}

func TestResolveAndLog_VisitInsertFailureStillRedirects(t *testing.T) {
	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").
		Return(&domain.Link{ID: 3, OriginalURL: "https://example.com"}, nil).Once()
	m.geo.EXPECT().Lookup(mock.Anything, "8.8.8.8").Return(domain.Location{Status: "success"}).Once()
	m.repo.EXPECT().InsertVisit(mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	names := captureMetrics(m.recorder)

	target, err := svc.ResolveAndLog(context.Background(), "abc123", "8.8.8.8", "curl/8.0")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", target)
	assert.Equal(t, []string{service.MetricVisitLogFailed, service.MetricRedirects}, *names)
}

// ListVisits tests

func TestListVisits_Success(t *testing.T) {
	visits := []domain.Visit{
		{ID: 1, LinkID: 5, IP: "8.8.8.8", UserAgent: "a"},
		{ID: 2, LinkID: 5, IP: "1.1.1.1", UserAgent: "b"},
	}

	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").Return(&domain.Link{ID: 5}, nil).Once()
	m.repo.EXPECT().FindVisitsByLinkID(mock.Anything, int64(5)).Return(visits, nil).Once()

	got, err := svc.ListVisits(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, visits, got)
}

func TestListVisits_NoVisits(t *testing.T) {
	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").Return(&domain.Link{ID: 5}, nil).Once()
	m.repo.EXPECT().FindVisitsByLinkID(mock.Anything, int64(5)).Return(nil, nil).Once()

	got, err := svc.ListVisits(context.Background(), "abc123")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListVisits_NotFound(t *testing.T) {
	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "nope00").Return(nil, repository.ErrNotFound).Once()
	m.recorder.EXPECT().RecordBusiness(service.MetricLinkNotFound, float64(1), mock.Anything).Return().Once()

	_, err := svc.ListVisits(context.Background(), "nope00")
	assert.ErrorIs(t, err, service.ErrLinkNotFound)
}

func TestListVisits_StoreError(t *testing.T) {
	expectedErr := errors.New("db error")

	svc, m := newTestService(t, 3)
	m.repo.EXPECT().FindLinkByCode(mock.Anything, "abc123").Return(&domain.Link{ID: 5}, nil).Once()
	m.repo.EXPECT().FindVisitsByLinkID(mock.Anything, int64(5)).Return(nil, expectedErr).Once()

	_, err := svc.ListVisits(context.Background(), "abc123")
	assert.ErrorIs(t, err, expectedErr)
}
