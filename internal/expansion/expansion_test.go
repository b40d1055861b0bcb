package expansion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocdat202/pivot/internal/grouping"
	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

func tree(t *testing.T) []grouping.GroupedRow {
	t.Helper()
	rows := []value.Row{
		{"region": value.String("North"), "product": value.String("A"), "channel": value.String("web"), "sales": value.Number(1)},
		{"region": value.String("North"), "product": value.String("B"), "channel": value.String("shop"), "sales": value.Number(2)},
		{"region": value.String("South"), "product": value.String("A"), "channel": value.String("web"), "sales": value.Number(4)},
	}
	cfg := model.PivotConfig{GroupBy: []string{"region", "product", "channel"}, Metrics: []string{"sales"}}
	return grouping.BuildTree(rows, cfg, "")
}

func paths(rows []grouping.GroupedRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Path
	}
	return out
}

func TestSet_AddRemoveContains(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 0, s.Len())

	assert.True(t, s.Add([]string{"North"}))
	assert.False(t, s.Add([]string{"North"}))
	assert.True(t, s.Contains([]string{"North"}))
	assert.False(t, s.Contains([]string{"North", "A"}))
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Remove([]string{"North"}))
	assert.False(t, s.Remove([]string{"North"}))
	assert.Equal(t, 0, s.Len())
}

func TestSet_NoDelimiterCollisions(t *testing.T) {
	s := NewSet([]string{"a|b"})
	assert.True(t, s.Contains([]string{"a|b"}))
	assert.False(t, s.Contains([]string{"a", "b"}))

	s.Add([]string{"a", "b"})
	assert.Equal(t, 2, s.Len())
	s.Remove([]string{"a|b"})
	assert.True(t, s.Contains([]string{"a", "b"}))

	assert.False(t, NewSet([]string{"ab", ""}).Contains([]string{"a", "b"}))
	assert.False(t, NewSet([]string{""}).Contains([]string{}))
}

func TestSet_DoesNotAliasInput(t *testing.T) {
	path := []string{"North"}
	s := NewSet(path)
	path[0] = "South"
	assert.True(t, s.Contains([]string{"North"}))
	assert.False(t, s.Contains([]string{"South"}))
}

func TestSet_NilIsEmpty(t *testing.T) {
	var s *Set
	assert.False(t, s.Contains([]string{"North"}))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Paths())
	assert.False(t, s.Remove([]string{"North"}))
}

func TestSet_ZeroValue(t *testing.T) {
	var s Set
	assert.True(t, s.Toggle([]string{"x"}))
	assert.True(t, s.Contains([]string{"x"}))
}

func TestSet_PathsSortedAndCloned(t *testing.T) {
	s := NewSet([]string{"South"}, []string{"North", "B"}, []string{"North"})
	assert.Equal(t, [][]string{{"North"}, {"North", "B"}, {"South"}}, s.Paths())

	clone := s.Clone()
	clone.Remove([]string{"South"})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestSet_JSON(t *testing.T) {
	s := NewSet([]string{"South"}, []string{"North", "a|b"})
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[["North","a|b"],["South"]]`, string(data))

	decoded := NewSet([]string{"stale"})
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, s.Paths(), decoded.Paths())

	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), decoded))
}

func TestPathKey(t *testing.T) {
	assert.Equal(t, "North|A", PathKey([]string{"North", "A"}))
	assert.Equal(t, []string{"North", "A"}, ParsePathKey("North|A"))
	assert.Equal(t, []string{}, ParsePathKey(""))
}

func TestVisibleRows_Collapsed(t *testing.T) {
	rows := tree(t)
	visible := VisibleRows(rows, nil)
	assert.Equal(t, [][]string{{"Total"}, {"North"}, {"South"}}, paths(visible))
	assert.Equal(t, visible, VisibleRows(rows, NewSet()))
}

func TestVisibleRows_Expanded(t *testing.T) {
	rows := tree(t)
	s := NewSet([]string{"North"})
	assert.Equal(t, [][]string{
		{"Total"}, {"North"}, {"North", "A"}, {"North", "B"}, {"South"},
	}, paths(VisibleRows(rows, s)))

	s.Add([]string{"North", "A"})
	assert.Equal(t, [][]string{
		{"Total"}, {"North"}, {"North", "A"}, {"North", "A", "web"}, {"North", "B"}, {"South"},
	}, paths(VisibleRows(rows, s)))
}

// Only the immediate parent gates a row: an expanded child of a collapsed
// parent keeps its own children visible.
func TestVisibleRows_OnlyParentGates(t *testing.T) {
	rows := tree(t)
	s := NewSet([]string{"North", "A"})
	assert.Equal(t, [][]string{
		{"Total"}, {"North"}, {"North", "A", "web"}, {"South"},
	}, paths(VisibleRows(rows, s)))
}

func TestVisibleRows_ToggleIdempotence(t *testing.T) {
	rows := tree(t)
	s := NewSet([]string{"South"})
	before := VisibleRows(rows, s)

	assert.True(t, s.Toggle([]string{"North"}))
	assert.NotEqual(t, before, VisibleRows(rows, s))
	assert.False(t, s.Toggle([]string{"North"}))
	assert.Equal(t, before, VisibleRows(rows, s))
}

func TestVisibleRows_DoesNotMutate(t *testing.T) {
	rows := tree(t)
	n := len(rows)
	s := NewSet([]string{"North"})
	_ = VisibleRows(rows, s)
	assert.Len(t, rows, n)
	assert.Equal(t, 1, s.Len())
}

func TestExpandAll(t *testing.T) {
	rows := tree(t)
	s := ExpandAll(rows, 3)
	assert.Equal(t, [][]string{
		{"North"}, {"North", "A"}, {"North", "B"}, {"South"}, {"South", "A"},
	}, s.Paths())
	assert.Equal(t, paths(rows), paths(VisibleRows(rows, s)))
}

func TestExpandToLevel(t *testing.T) {
	rows := tree(t)
	s := ExpandToLevel(rows, 1)
	assert.Equal(t, [][]string{{"North"}, {"South"}}, s.Paths())

	visible := VisibleRows(rows, s)
	for _, r := range visible {
		assert.LessOrEqual(t, r.Level, 1)
	}
	assert.Empty(t, ExpandToLevel(rows, 0).Paths())
}
