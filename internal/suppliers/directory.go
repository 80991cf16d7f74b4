package suppliers

import (
	"context"

	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
)

const DefaultPageSize = 10

// Lister is the part of the API the directory reads.
type Lister interface {
	ListSuppliers(ctx context.Context, skip, limit int) ([]v1.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*v1.SupplierDetail, error)
}

// Directory pages through every known supplier. Nothing is cached.
type Directory struct {
	lister Lister
}

func NewDirectory(lister Lister) *Directory {
	return &Directory{lister: lister}
}

func (d *Directory) Browse(ctx context.Context, skip, limit int) ([]v1.Supplier, error) {
	if skip < 0 {
		return nil, client.NewErrValidation("skip must not be negative, got %d", skip)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return d.lister.ListSuppliers(ctx, skip, limit)
}

func (d *Directory) Get(ctx context.Context, id int64) (*v1.SupplierDetail, error) {
	return d.lister.GetSupplier(ctx, id)
}
