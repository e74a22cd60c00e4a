package service

//go:generate go tool mockery

import (
	"context"

	"shortlink/internal/domain"
)

type Repository interface {
	InsertLink(ctx context.Context, link *domain.Link) error
	FindLinkByCode(ctx context.Context, code string) (*domain.Link, error)
	InsertVisit(ctx context.Context, visit *domain.Visit) error
	FindVisitsByLinkID(ctx context.Context, linkID int64) ([]domain.Visit, error)
}

type CodeGenerator interface {
	Code(ctx context.Context) (string, error)
}

type GeoLocator interface {
	Lookup(ctx context.Context, ip string) domain.Location
}

type BusinessRecorder interface {
	RecordBusiness(name string, value float64, labels map[string]string)
}
