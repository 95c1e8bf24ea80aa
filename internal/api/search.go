package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// SearchAll searches every occurrence. Administrators use this variant.
func (c *Client) SearchAll(ctx context.Context, q domain.ListQuery) (domain.ListPage, error) {
	return c.search(ctx, c.endpoint(searchParams(q), "ocorrencias", "search"))
}

// SearchByResident searches the occurrences reported by one resident.
func (c *Client) SearchByResident(ctx context.Context, residentID string, q domain.ListQuery) (domain.ListPage, error) {
	return c.search(ctx, c.endpoint(searchParams(q), "ocorrencias", "morador", residentID, "search"))
}

func (c *Client) search(ctx context.Context, target string) (domain.ListPage, error) {
	var page wirePage
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &page); err != nil {
		return domain.ListPage{}, err
	}
	return page.toDomain()
}

func searchParams(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.FreeText != "" {
		v.Set("q", q.FreeText)
	}
	if status := q.StatusCode(); status != "" {
		v.Set("status", status)
	}
	if q.Type != "" {
		v.Set("tipo", q.Type)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.PageSize))
	return v
}
