package repository

import (
	"context"

	"kawasaki_site/models"
)

// Source delivers the raw facility partition for one ward. The dataset
// is read only and periodically replaced wholesale, so implementations
// never expose a write path.
type Source interface {
	LoadWard(ctx context.Context, ward string) ([]models.RawRecord, error)
}

// MenuSource delivers the raw lunch-menu records for one month
// (YYYY-MM).
type MenuSource interface {
	LoadMonth(ctx context.Context, month string) ([]models.RawMenu, error)
}
