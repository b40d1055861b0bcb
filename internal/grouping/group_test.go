package grouping

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

func regionRows() []value.Row {
	return []value.Row{
		{"region": value.String("North"), "sales": value.Number(100)},
		{"region": value.String("South"), "sales": value.Number(200)},
		{"region": value.String("North"), "sales": value.Number(50)},
	}
}

func sampleRows() []value.Row {
	var rows []value.Row
	regions := []string{"West", "North", "South", "East"}
	products := []string{"Widget B", "Widget A"}
	months := []string{"2024-02", "2024-01"}
	n := 0
	for _, m := range months {
		for _, r := range regions {
			for _, p := range products {
				n++
				rows = append(rows, value.Row{
					"region":   value.String(r),
					"product":  value.String(p),
					"date":     value.String(m),
					"sales":    value.Int(n * 100),
					"quantity": value.Int(n),
				})
			}
		}
	}
	return rows
}

func TestBuildTree_NorthSouthScenario(t *testing.T) {
	cfg := model.PivotConfig{
		GroupBy:    []string{"region"},
		Metrics:    []string{"sales"},
		Aggregates: map[string]model.AggregateFunction{"sales": model.AggSum},
	}

	tree := BuildTree(regionRows(), cfg, "")
	require.Len(t, tree, 3)

	total := tree[0]
	assert.Equal(t, []string{"Total"}, total.Path)
	assert.Equal(t, -1, total.Level)
	assert.True(t, total.IsTotal)
	assert.Equal(t, 3, total.ChildrenCount)
	assert.Equal(t, value.Number(350), total.Get("sales"))

	north := tree[1]
	assert.Equal(t, []string{"North"}, north.Path)
	assert.Equal(t, 0, north.Level)
	assert.Equal(t, 2, north.ChildrenCount)
	assert.Equal(t, value.Number(150), north.Get("sales"))
	assert.Equal(t, value.String("North"), north.Get("region"))

	south := tree[2]
	assert.Equal(t, []string{"South"}, south.Path)
	assert.Equal(t, 1, south.ChildrenCount)
	assert.Equal(t, value.Number(200), south.Get("sales"))
}

func TestBuildTree_NoGroupBy(t *testing.T) {
	tree := BuildTree(regionRows(), model.PivotConfig{Metrics: []string{"sales"}}, "")
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestBuildTree_CustomTotalLabel(t *testing.T) {
	tree := BuildTree(regionRows(), model.PivotConfig{GroupBy: []string{"region"}}, "Grand total")
	assert.Equal(t, []string{"Grand total"}, tree[0].Path)
	assert.Equal(t, "Grand total", tree[0].Label())
}

func TestBuildTree_EmptyRows(t *testing.T) {
	tree := BuildTree(nil, model.PivotConfig{GroupBy: []string{"region"}, Metrics: []string{"sales"}}, "")
	require.Len(t, tree, 1)
	assert.Equal(t, value.Number(0), tree[0].Get("sales"))
	assert.Equal(t, 0, tree[0].ChildrenCount)
}

func TestGroupData_TwoLevels(t *testing.T) {
	rows := sampleRows()
	tree := GroupData(rows, []string{"region", "product"}, []string{"quantity"}, nil, 0, nil)

	// 4 regions, each followed by its 2 products.
	require.Len(t, tree, 12)

	var paths [][]string
	for _, r := range tree {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, [][]string{
		{"East"}, {"East", "Widget A"}, {"East", "Widget B"},
		{"North"}, {"North", "Widget A"}, {"North", "Widget B"},
		{"South"}, {"South", "Widget A"}, {"South", "Widget B"},
		{"West"}, {"West", "Widget A"}, {"West", "Widget B"},
	}, paths)

	east := tree[0]
	assert.Equal(t, 0, east.Level)
	assert.Equal(t, 4, east.ChildrenCount)
	assert.Equal(t, value.String("East"), east.Get("region"))
	assert.True(t, east.Get("product").IsMissing(), "headers carry only their own group column")

	eastA := tree[1]
	assert.Equal(t, 1, eastA.Level)
	assert.Equal(t, 2, eastA.ChildrenCount)
	assert.Equal(t, value.String("Widget A"), eastA.Get("product"))
	assert.Equal(t, value.Number(24), eastA.Get("quantity"))
}

func TestGroupData_LeafBaseCase(t *testing.T) {
	rows := regionRows()
	tree := GroupData(rows, []string{"region"}, []string{"sales"}, nil, 1, []string{"North"})
	require.Len(t, tree, 1)
	assert.Equal(t, []string{"North"}, tree[0].Path)
	assert.Equal(t, 1, tree[0].Level)
	assert.Equal(t, 3, tree[0].ChildrenCount)
	assert.Equal(t, value.Number(350), tree[0].Get("sales"))
}

func TestGroupData_NullAndMissingShareEmptyKey(t *testing.T) {
	rows := []value.Row{
		{"region": value.Null(), "sales": value.Number(1)},
		{"sales": value.Number(2)},
		{"region": value.String("A"), "sales": value.Number(4)},
	}
	tree := GroupData(rows, []string{"region"}, []string{"sales"}, nil, 0, nil)
	require.Len(t, tree, 2)
	assert.Equal(t, []string{""}, tree[0].Path)
	assert.Equal(t, value.Number(3), tree[0].Get("sales"))
	assert.Equal(t, []string{"A"}, tree[1].Path)
}

func TestGroupData_MetricOverwritesGroupColumn(t *testing.T) {
	rows := []value.Row{{"region": value.String("North")}, {"region": value.String("North")}}
	tree := GroupData(rows, []string{"region"}, []string{"region"},
		map[string]model.AggregateFunction{"region": model.AggCount}, 0, nil)
	require.Len(t, tree, 1)
	assert.Equal(t, value.Number(2), tree[0].Get("region"))
	assert.Equal(t, "North", tree[0].Label())
}

func TestGroupData_Completeness(t *testing.T) {
	rows := sampleRows()
	cfg := model.PivotConfig{
		GroupBy: []string{"date", "region", "product"},
		Metrics: []string{"sales"},
	}
	tree := BuildTree(rows, cfg, "")

	var flatSum float64
	for _, r := range rows {
		flatSum += r.Get("sales").Float()
	}
	assert.Equal(t, value.Number(flatSum), tree[0].Get("sales"))

	childCounts := 0
	for _, r := range tree {
		if r.Level == 0 {
			childCounts += r.ChildrenCount
		}
	}
	assert.Equal(t, len(rows), childCounts)
}

func TestGroupData_SiblingOrderIndependentOfInput(t *testing.T) {
	rows := sampleRows()
	shuffled := make([]value.Row, len(rows))
	copy(shuffled, rows)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	groupBy := []string{"region", "product"}
	a := GroupData(rows, groupBy, []string{"sales"}, nil, 0, nil)
	b := GroupData(shuffled, groupBy, []string{"sales"}, nil, 0, nil)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Path, b[i].Path)
		assert.Equal(t, a[i].Get("sales"), b[i].Get("sales"))
	}

	for level := 0; level < len(groupBy); level++ {
		var prev *GroupedRow
		for i := range b {
			row := b[i]
			if row.Level != level {
				continue
			}
			if prev != nil && equalPaths(prev.ParentPath(), row.ParentPath()) {
				assert.Less(t, prev.Label(), row.Label())
			}
			prev = &b[i]
		}
	}
}

func TestGroupData_CodeUnitOrderKeys(t *testing.T) {
	rows := []value.Row{
		{"k": value.String("b")},
		{"k": value.String("\uFF21")},
		{"k": value.String("B")},
		{"k": value.String("\U0001F600")},
		{"k": value.Number(10)},
		{"k": value.Number(9)},
	}
	tree := GroupData(rows, []string{"k"}, nil, nil, 0, nil)
	var labels []string
	for _, r := range tree {
		labels = append(labels, r.Label())
	}
	assert.Equal(t, []string{"10", "9", "B", "b", "\U0001F600", "\uFF21"}, labels)
}

func TestGroupedRow_Helpers(t *testing.T) {
	row := GroupedRow{Path: []string{"North", "Widget A"}, Level: 1}
	assert.Equal(t, []string{"North"}, row.ParentPath())
	assert.Equal(t, "Widget A", row.Label())
	assert.True(t, row.Expandable(3))
	assert.False(t, row.Expandable(2))

	total := GroupedRow{Path: []string{"Total"}, Level: -1, IsTotal: true}
	assert.False(t, total.Expandable(3))
	assert.Empty(t, total.ParentPath())

	clone := row.Clone()
	clone.Path[0] = "South"
	assert.Equal(t, "North", row.Path[0])
}

func TestSplitCombinations(t *testing.T) {
	rows := []value.Row{
		{"region": value.String("North"), "product": value.String("B")},
		{"region": value.String("North"), "product": value.String("A")},
		{"region": value.String("North"), "product": value.String("B")},
		{"region": value.Null(), "product": value.String("A")},
		{"product": value.Number(3)},
	}

	assert.Equal(t, []string{"North|A", "North|B", "|3", "|A"},
		SplitCombinations(rows, []string{"region", "product"}, ""))
	assert.Equal(t, []string{"", "North"}, SplitCombinations(rows, []string{"region"}, "|"))

	empty := SplitCombinations(rows, nil, "|")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func equalPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
