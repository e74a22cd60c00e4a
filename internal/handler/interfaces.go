package handler

//go:generate go tool mockery

import (
	"context"

	"shortlink/internal/domain"
)

type LinkService interface {
	Shorten(ctx context.Context, originalURL, baseURL string) (*domain.ShortenResponse, error)
	ResolveAndLog(ctx context.Context, code, visitorIP, userAgent string) (string, error)
	ListVisits(ctx context.Context, code string) ([]domain.Visit, error)
}

type URLValidator interface {
	ValidateURL(url string) error
}

type BusinessRecorder interface {
	RecordBusiness(name string, value float64, labels map[string]string)
}
