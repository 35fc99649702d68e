package relaypager

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_ConnectionFromCollection(t *testing.T) {
	letters := Materialized[string]{"A", "B", "C", "D", "E"}

	tests := []struct {
		name         string
		args         Args
		wantNodes    []string
		wantStart    int
		wantPrevious bool
		wantNext     bool
	}{
		{
			name:      "no arguments returns everything",
			args:      Args{},
			wantNodes: []string{"A", "B", "C", "D", "E"},
		},
		{
			name:      "first",
			args:      Args{First: lo.ToPtr(2)},
			wantNodes: []string{"A", "B"},
			wantNext:  true,
		},
		{
			name:      "first equal to length",
			args:      Args{First: lo.ToPtr(5)},
			wantNodes: []string{"A", "B", "C", "D", "E"},
		},
		{
			name:      "first after",
			args:      Args{First: lo.ToPtr(2), After: lo.ToPtr(OffsetToCursor(1))},
			wantNodes: []string{"C", "D"},
			wantStart: 2,
			wantNext:  true,
		},
		{
			name:      "first after reaching the end",
			args:      Args{First: lo.ToPtr(10), After: lo.ToPtr(OffsetToCursor(1))},
			wantNodes: []string{"C", "D", "E"},
			wantStart: 2,
		},
		{
			name:         "last",
			args:         Args{Last: lo.ToPtr(2)},
			wantNodes:    []string{"D", "E"},
			wantStart:    3,
			wantPrevious: true,
		},
		{
			name:         "last before",
			args:         Args{Last: lo.ToPtr(2), Before: lo.ToPtr(OffsetToCursor(3))},
			wantNodes:    []string{"B", "C"},
			wantStart:    1,
			wantPrevious: true,
		},
		{
			name:      "after and before",
			args:      Args{After: lo.ToPtr(OffsetToCursor(0)), Before: lo.ToPtr(OffsetToCursor(4))},
			wantNodes: []string{"B", "C", "D"},
			wantStart: 1,
		},
		{
			name:      "first and before",
			args:      Args{First: lo.ToPtr(2), Before: lo.ToPtr(OffsetToCursor(4))},
			wantNodes: []string{"A", "B"},
			wantNext:  true,
		},
		{
			name:      "after the last element",
			args:      Args{First: lo.ToPtr(2), After: lo.ToPtr(OffsetToCursor(4))},
			wantNodes: []string{},
		},
		{
			name:      "after beyond the end",
			args:      Args{First: lo.ToPtr(2), After: lo.ToPtr(OffsetToCursor(math.MaxInt))},
			wantNodes: []string{},
		},
		{
			name:      "before below the start",
			args:      Args{Last: lo.ToPtr(2), Before: lo.ToPtr(OffsetToCursor(math.MinInt))},
			wantNodes: []string{},
		},
		{
			name:      "huge first",
			args:      Args{First: lo.ToPtr(math.MaxInt)},
			wantNodes: []string{"A", "B", "C", "D", "E"},
		},
		{
			name:      "huge last before",
			args:      Args{Last: lo.ToPtr(math.MaxInt), Before: lo.ToPtr(OffsetToCursor(math.MaxInt))},
			wantNodes: []string{"A", "B", "C", "D", "E"},
		},
		{
			name:      "malformed cursor is ignored",
			args:      Args{First: lo.ToPtr(2), After: lo.ToPtr("not-a-cursor")},
			wantNodes: []string{"A", "B"},
			wantNext:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := ConnectionFromCollection[string](context.Background(), letters, tt.args, 5)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.wantNodes, conn.Nodes()); diff != "" {
				t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
			}
			for i, edge := range conn.Edges {
				require.Equal(t, OffsetToCursor(tt.wantStart+i), edge.Cursor)
			}

			require.Equal(t, tt.wantPrevious, conn.PageInfo.HasPreviousPage)
			require.Equal(t, tt.wantNext, conn.PageInfo.HasNextPage)
			require.Equal(t, int64(5), conn.Length)

			if len(tt.wantNodes) == 0 {
				require.Nil(t, conn.PageInfo.StartCursor)
				require.Nil(t, conn.PageInfo.EndCursor)
				return
			}
			require.Equal(t, conn.Edges[0].Cursor, lo.FromPtr(conn.PageInfo.StartCursor))
			require.Equal(t, conn.Edges[len(conn.Edges)-1].Cursor, lo.FromPtr(conn.PageInfo.EndCursor))
		})
	}
}

func Test_ConnectionFromCollection_HasNextPage(t *testing.T) {
	source := Materialized[int](lo.Range(20))

	for n := 1; n <= 25; n++ {
		conn, err := ConnectionFromCollection[int](context.Background(), source, Args{First: lo.ToPtr(n)}, 20)
		require.NoError(t, err)
		require.LessOrEqual(t, len(conn.Edges), n)
		require.Equal(t, 20-len(conn.Edges) > 0, conn.PageInfo.HasNextPage, "first=%d", n)
	}
}

func Test_ConnectionFromCollection_RoundTrip(t *testing.T) {
	source := Materialized[int]{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	ctx := context.Background()

	first, err := ConnectionFromCollection[int](ctx, source, Args{First: lo.ToPtr(3)}, 10)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, first.Nodes())

	second, err := ConnectionFromCollection[int](ctx, source, Args{First: lo.ToPtr(3), After: first.PageInfo.EndCursor}, 10)
	require.NoError(t, err)
	require.Equal(t, []int{4, 5, 6}, second.Nodes())
	require.True(t, second.PageInfo.HasNextPage)
}

func Test_Connection_NilHelpers(t *testing.T) {
	var conn *Connection[int]
	require.Nil(t, conn.Nodes())
	require.Zero(t, conn.TotalCount())
}
