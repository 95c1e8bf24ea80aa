package listctl

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// Source serves pages of occurrences. The two variants mirror the
// backend's admin-wide and per-resident search endpoints.
type Source interface {
	SearchAll(ctx context.Context, q domain.ListQuery) (domain.ListPage, error)
	SearchByResident(ctx context.Context, residentID string, q domain.ListQuery) (domain.ListPage, error)
}

// Search dispatches q to the variant selected by scope.
func Search(ctx context.Context, src Source, scope domain.Scope, q domain.ListQuery) (domain.ListPage, error) {
	if err := q.Validate(); err != nil {
		return domain.ListPage{}, err
	}
	switch scope.Role {
	case domain.RoleAdmin:
		return src.SearchAll(ctx, q)
	case domain.RoleResident:
		return src.SearchByResident(ctx, scope.ResidentID, q)
	default:
		return domain.ListPage{}, fmt.Errorf("unsupported role %q", scope.Role)
	}
}
