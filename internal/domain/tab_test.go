package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabMapping(t *testing.T) {
	tests := []struct {
		tab        Tab
		wantStatus Status
		hasStatus  bool
		wantBucket Bucket
	}{
		{tab: TabAll, hasStatus: false, wantBucket: BucketDefault},
		{tab: TabOpen, wantStatus: StatusOpen, hasStatus: true, wantBucket: BucketDefault},
		{tab: TabInProgress, wantStatus: StatusInProgress, hasStatus: true, wantBucket: BucketDefault},
		{tab: TabResolved, wantStatus: StatusResolved, hasStatus: true, wantBucket: BucketDefault},
		{tab: TabCancelled, wantStatus: StatusCancelled, hasStatus: true, wantBucket: BucketArchived},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			status, ok := tt.tab.StatusFilter()
			assert.Equal(t, tt.hasStatus, ok)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBucket, tt.tab.Bucket())
		})
	}
}

func TestEveryTabIsMapped(t *testing.T) {
	for _, tab := range AllTabs() {
		assert.True(t, tab.IsValid(), "tab %s", tab)
		assert.NotEqual(t, string(tab), tab.Label(), "tab %s should have a display label", tab)
	}
}

func TestOnlyCancelledTabUsesArchivedBucket(t *testing.T) {
	for _, tab := range AllTabs() {
		if tab == TabCancelled {
			continue
		}
		assert.Equal(t, BucketDefault, tab.Bucket(), "tab %s", tab)
	}
}

func TestNormalizeTab(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Tab
	}{
		{name: "id", raw: "pendente", want: TabOpen},
		{name: "label", raw: "Canceladas", want: TabCancelled},
		{name: "label with spaces", raw: " em andamento ", want: TabInProgress},
		{name: "empty defaults", raw: "", want: TabAll},
		{name: "invalid defaults", raw: "archived", want: TabAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTab(tt.raw))
		})
	}
}

func TestTabNextPrevWrap(t *testing.T) {
	assert.Equal(t, TabOpen, TabAll.Next())
	assert.Equal(t, TabAll, TabCancelled.Next())
	assert.Equal(t, TabCancelled, TabAll.Prev())
	assert.Equal(t, DefaultTab(), Tab("bogus").Next())
}

func TestNewListQueryFromTab(t *testing.T) {
	q := NewListQuery(TabCancelled, "elev", "MANUTENCAO", 10)
	require.NoError(t, q.Validate())
	require.NotNil(t, q.Status)
	assert.Equal(t, StatusCancelled, *q.Status)
	assert.Equal(t, BucketArchived, q.Bucket)
	assert.Equal(t, 0, q.Page)

	all := NewListQuery(TabAll, "", "", 10)
	assert.Nil(t, all.Status)
	assert.Equal(t, "", all.StatusCode())

	next := q.WithPage(3)
	assert.Equal(t, 3, next.Page)
	assert.Equal(t, 0, q.Page, "WithPage must not mutate the receiver")
}

func TestListQueryValidate(t *testing.T) {
	bad := Status("FECHADA")
	tests := []struct {
		name    string
		query   ListQuery
		wantErr bool
	}{
		{name: "valid", query: ListQuery{PageSize: 10}},
		{name: "negative page", query: ListQuery{Page: -1, PageSize: 10}, wantErr: true},
		{name: "zero page size", query: ListQuery{PageSize: 0}, wantErr: true},
		{name: "unknown status", query: ListQuery{PageSize: 1, Status: &bad}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
