package paging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/paging"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		want        paging.Params
	}{
		{name: "Defaults", want: paging.Params{Page: 1, Limit: 20}},
		{name: "Explicit", page: "3", limit: "50", want: paging.Params{Page: 3, Limit: 50}},
		{name: "Capped", page: "1", limit: "500", want: paging.Params{Page: 1, Limit: 100}},
		{name: "Garbage", page: "x", limit: "-4", want: paging.Params{Page: 1, Limit: 20}},
		{name: "ZeroPage", page: "0", limit: "10", want: paging.Params{Page: 1, Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paging.Parse(tt.page, tt.limit))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, paging.Params{Page: 1, Limit: 20}, paging.Params{}.Normalize())
	assert.Equal(t, paging.Params{Page: 2, Limit: 100}, paging.Params{Page: 2, Limit: 1000}.Normalize())
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name  string
		p     paging.Params
		total int
		want  paging.Meta
	}{
		{
			name:  "Empty",
			p:     paging.Params{Page: 1, Limit: 20},
			total: 0,
			want:  paging.Meta{Page: 1, Limit: 20},
		},
		{
			name:  "SinglePage",
			p:     paging.Params{Page: 1, Limit: paging.MaxLimit},
			total: 42,
			want:  paging.Meta{Page: 1, Limit: paging.MaxLimit, Total: 42, TotalPages: 1},
		},
		{
			name:  "MiddlePage",
			p:     paging.Params{Page: 2, Limit: 20},
			total: 45,
			want: paging.Meta{
				Page: 2, Limit: 20, Total: 45, TotalPages: 3,
				HasNextPage: true, HasPreviousPage: true,
			},
		},
		{
			name:  "LastPage",
			p:     paging.Params{Page: 3, Limit: 20},
			total: 60,
			want: paging.Meta{
				Page: 3, Limit: 20, Total: 60, TotalPages: 3,
				HasPreviousPage: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paging.NewMeta(tt.p, tt.total))
			assert.Equal(t, (tt.p.Page-1)*tt.p.Limit, tt.p.Offset())
		})
	}
}
