package session

import (
	"encoding/base64"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chetan-316/visualcraft/internal/chartbuild"
	"github.com/Chetan-316/visualcraft/internal/dataset"
)

func loadTable(t *testing.T, csv string) (*dataset.Table, dataset.Classification) {
	t.Helper()
	payload := "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(csv))
	table, err := dataset.Load(payload, 0)
	require.NoError(t, err)
	return table, table.Classify()
}

func buildChart(t *testing.T, table *dataset.Table) *chartbuild.Chart {
	t.Helper()
	res := chartbuild.Build(table, chartbuild.Spec{Kind: chartbuild.KindBar, X: "a", Y: "b"})
	require.Equal(t, chartbuild.StateRendered, res.State, res.Message)
	return res.Chart
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore()

	idA, ctxA := store.New()
	idB, ctxB := store.New()
	assert.NotEqual(t, idA, idB)

	table, class := loadTable(t, "a,b\nx,1\n")
	ctxA.SetTable(table, class)

	_, _, ok := ctxB.Table()
	assert.False(t, ok, "session B sees session A's table")

	got, ok := store.Get(idA)
	require.True(t, ok)
	assert.Same(t, ctxA, got)

	_, ok = store.Get("unknown-id")
	assert.False(t, ok)
}

func TestContext_SetTableClearsChart(t *testing.T) {
	store := NewStore()
	_, ctx := store.New()

	table, class := loadTable(t, "a,b\nx,1\ny,2\n")
	ctx.SetTable(table, class)
	ctx.SetChart(buildChart(t, table))

	_, ok := ctx.Chart()
	require.True(t, ok)

	// New upload replaces the table and invalidates the chart
	next, nextClass := loadTable(t, "a,b\nz,9\n")
	ctx.SetTable(next, nextClass)

	_, ok = ctx.Chart()
	assert.False(t, ok, "chart built from the old table outlived it")

	got, _, ok := ctx.Table()
	require.True(t, ok)
	assert.Same(t, next, got)
}

func TestContext_ClearTable(t *testing.T) {
	store := NewStore()
	_, ctx := store.New()

	table, class := loadTable(t, "a,b\nx,1\n")
	ctx.SetTable(table, class)
	ctx.SetChart(buildChart(t, table))

	ctx.ClearTable()

	_, _, ok := ctx.Table()
	assert.False(t, ok)
	_, ok = ctx.Chart()
	assert.False(t, ok)
}

func TestContext_Snapshot(t *testing.T) {
	store := NewStore()
	_, ctx := store.New()

	gotTable, gotChart := ctx.Snapshot()
	assert.Nil(t, gotTable)
	assert.Nil(t, gotChart)

	table, class := loadTable(t, "a,b\nx,1\n")
	ctx.SetTable(table, class)
	chart := buildChart(t, table)
	ctx.SetChart(chart)

	gotTable, gotChart = ctx.Snapshot()
	assert.Same(t, table, gotTable)
	assert.Same(t, chart, gotChart)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	table, class := loadTable(t, "a,b\nx,1\n")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, ctx := store.New()
			ctx.SetTable(table, class)
			got, ok := store.Get(id)
			if !ok {
				t.Error("created session not found")
				return
			}
			if _, _, ok := got.Table(); !ok {
				t.Error("table not visible in created session")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, store.Count())
}
