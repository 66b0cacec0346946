package repository

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestShowSearchQuery_Normalized(t *testing.T) {
    cases := []struct {
        name string
        in   ShowSearchQuery
        want ShowSearchQuery
    }{
        {
            name: "defaults",
            in:   ShowSearchQuery{},
            want: ShowSearchQuery{Time: SearchUpcoming, Page: 1, PageSize: 20},
        },
        {
            name: "clamps oversized page size",
            in:   ShowSearchQuery{Page: 3, PageSize: 500},
            want: ShowSearchQuery{Time: SearchUpcoming, Page: 3, PageSize: 100},
        },
        {
            name: "negative paging",
            in:   ShowSearchQuery{Page: -1, PageSize: -5},
            want: ShowSearchQuery{Time: SearchUpcoming, Page: 1, PageSize: 20},
        },
        {
            name: "trims and lowercases the time filter",
            in:   ShowSearchQuery{Title: "  Dune ", Time: " ACTIVE "},
            want: ShowSearchQuery{Title: "Dune", Time: SearchActive, Page: 1, PageSize: 20},
        },
        {
            name: "unknown time filter falls back to upcoming",
            in:   ShowSearchQuery{Time: "yesterday"},
            want: ShowSearchQuery{Time: SearchUpcoming, Page: 1, PageSize: 20},
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, tc.in.normalized())
        })
    }
}

func TestShowSearchQuery_Conditions(t *testing.T) {
    t.Run("base filters always apply", func(t *testing.T) {
        cond, args := ShowSearchQuery{Time: SearchAny}.conditions()
        assert.Contains(t, cond, "s.status = 'SCHEDULED'")
        assert.Contains(t, cond, "sc.is_active = 1")
        assert.NotContains(t, cond, "NOW()")
        assert.Empty(t, args)
    })

    t.Run("upcoming filters on start time", func(t *testing.T) {
        cond, _ := ShowSearchQuery{Time: SearchUpcoming}.conditions()
        assert.Contains(t, cond, "s.starts_at >= NOW()")
    })

    t.Run("active keeps running shows", func(t *testing.T) {
        cond, _ := ShowSearchQuery{Time: SearchActive}.conditions()
        assert.Contains(t, cond, "s.ends_at >= NOW()")
        assert.NotContains(t, cond, "s.starts_at >= NOW()")
    })

    t.Run("text filters bind lowercased patterns", func(t *testing.T) {
        q := ShowSearchQuery{Title: "Dune", Theater: "Galaxy", City: "Pune", Time: SearchAny}
        cond, args := q.conditions()
        assert.Contains(t, cond, "LOWER(s.movie_title) LIKE ?")
        assert.Contains(t, cond, "LOWER(t.name) LIKE ?")
        assert.Contains(t, cond, "LOWER(t.city) LIKE ?")
        assert.Equal(t, []any{"%dune%", "%galaxy%", "%pune%"}, args)
    })
}
