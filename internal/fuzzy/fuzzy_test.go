package fuzzy

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type job struct {
	Name     string
	Category string
	Client   string
}

func jobFields() []Field[job] {
	return []Field[job]{
		Func("name", func(j job) string { return j.Name }),
		Func("category", func(j job) string { return j.Category }),
	}
}

func TestScoreTiers(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"exact", "kitchen", "kitchen", 1.0},
		{"exact ignores case", "KITCHEN", "Kitchen", 1.0},
		{"substring", "kitchen", "Kitchen Deep Clean", 0.8 * 7.0 / 18.0},
		{"substring in middle", "deep", "Kitchen Deep Clean", 0.8 * 4.0 / 18.0},
		{"full subsequence", "kdc", "Kitchen Deep Clean", 0.6 * 3.0 / 18.0},
		{"partial subsequence", "kxz", "Kitchen", 0.6 * 1.0 / 7.0},
		{"no match", "kitchen", "Bathroom", 0},
		{"empty query", "", "anything", 0},
		{"empty text", "abc", "", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.query, tt.text), 1e-9)
		})
	}
}

func TestScoreMonotonicQuality(t *testing.T) {
	q := "kitchen"
	exact := Score(q, "Kitchen")
	substring := Score(q, "Kitchen Deep Clean")
	subsequence := Score(q, "Kick the hen")
	none := Score(q, "Bathroom")

	assert.Greater(t, exact, substring)
	assert.Greater(t, substring, subsequence)
	assert.Greater(t, subsequence, none)
	assert.Zero(t, none)
}

func TestScoreCountsRunes(t *testing.T) {
	// "café" is four runes but five bytes.
	assert.InDelta(t, 0.8*4.0/9.0, Score("CAFÉ", "café menu"), 1e-9)
	assert.Equal(t, 1.0, Score("Ünïcode", "ünÏCODE"))
}

func TestScoreIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, Score("wndw", "Window Wash"), Score("wndw", "Window Wash"))
	}
}

func TestScoreStaysInRange(t *testing.T) {
	pairs := [][2]string{
		{"abcdef", "abc"},
		{"a", "a"},
		{"zzz", "a"},
		{"longer query than text", "lq"},
	}
	for _, p := range pairs {
		s := Score(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, p)
		assert.LessOrEqual(t, s, 1.0, p)
	}
}

func TestSearchEndToEnd(t *testing.T) {
	items := []job{
		{Name: "Kitchen Deep Clean"},
		{Name: "Bathroom Sanitization"},
		{Name: "Kitchen Window Wash"},
	}
	fields := []Field[job]{Func("name", func(j job) string { return j.Name })}

	t.Run("both kitchen jobs ranked by length", func(t *testing.T) {
		results, err := SearchCollection(items, "kitchen", fields, Options{Threshold: 0.25, ShouldSort: true})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Kitchen Deep Clean", results[0].Item.Name)
		assert.Equal(t, "Kitchen Window Wash", results[1].Item.Name)
		assert.Greater(t, results[0].Score, results[1].Score)
		assert.Equal(t, 0, results[0].Index)
		assert.Equal(t, 2, results[1].Index)
	})

	t.Run("threshold 0.3 is a hard floor", func(t *testing.T) {
		// 0.8*7/19 = 0.2947 for the 19-rune title, which falls below 0.3.
		results, err := SearchCollection(items, "kitchen", fields, Options{Threshold: 0.3, ShouldSort: true})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Kitchen Deep Clean", results[0].Item.Name)
	})
}

func TestSearchThresholdExclusion(t *testing.T) {
	items := []job{
		{Name: "Kitchen"},
		{Name: "Kitchen Deep Clean"},
		{Name: "Kick the hen"},
		{Name: "Bathroom"},
	}
	fields := []Field[job]{Func("name", func(j job) string { return j.Name })}

	for _, threshold := range []float64{0, 0.1, 0.3, 0.5, 1} {
		t.Run(fmt.Sprintf("threshold %.1f", threshold), func(t *testing.T) {
			m, err := NewMatcher(fields, Options{Threshold: threshold})
			require.NoError(t, err)
			results := m.Search("kitchen", items)

			kept := map[int]bool{}
			for _, r := range results {
				kept[r.Index] = true
				assert.GreaterOrEqual(t, r.Score, threshold)
			}
			for i, item := range items {
				if m.ScoreItem("kitchen", item) < threshold {
					assert.False(t, kept[i], "item %q should be excluded", item.Name)
				} else {
					assert.True(t, kept[i], "item %q should be kept", item.Name)
				}
			}
		})
	}
}

func TestSearchStableSort(t *testing.T) {
	items := []job{
		{Name: "mop floor"},
		{Name: "dust shelf"},
		{Name: "mop stair"},
		{Name: "mop"},
		{Name: "mop porch"},
	}
	m, err := NewMatcher(jobFields(), Options{Threshold: 0.1, ShouldSort: true})
	require.NoError(t, err)

	results := m.Search("mop", items)
	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Item.Name
	}
	// "mop floor", "mop stair" and "mop porch" tie on score; input order wins.
	assert.Equal(t, []string{"mop", "mop floor", "mop stair", "mop porch"}, got)
}

func TestSearchUnsortedKeepsInputOrder(t *testing.T) {
	items := []job{{Name: "mop floor"}, {Name: "mop"}}
	m, err := NewMatcher(jobFields(), Options{Threshold: 0.1})
	require.NoError(t, err)

	results := m.Search("mop", items)
	require.Len(t, results, 2)
	assert.Equal(t, "mop floor", results[0].Item.Name)
	assert.Equal(t, "mop", results[1].Item.Name)
}

func TestSearchShortQueryPassthrough(t *testing.T) {
	items := []job{{Name: "Bathroom"}, {Name: "Attic"}, {Name: "Zebra"}}
	m, err := NewMatcher(jobFields(), Options{Threshold: 0.9, MinMatchCharLength: 2, ShouldSort: true})
	require.NoError(t, err)

	results, stats := m.SearchWithStats("a", items)
	require.Len(t, results, 3)
	assert.False(t, stats.Filtered)
	for i, r := range results {
		assert.Equal(t, items[i], r.Item)
		assert.Equal(t, i, r.Index)
		assert.Zero(t, r.Score)
		assert.Nil(t, r.Matches)
	}
}

func TestSearchEmptyQueryPassthrough(t *testing.T) {
	items := []job{{Name: "Bathroom"}, {Name: "Attic"}}
	m, err := NewMatcher(jobFields(), DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, m.Search("   ", items), 2)
}

func TestSearchIdempotent(t *testing.T) {
	items := []job{
		{Name: "Kitchen Deep Clean", Category: "kitchen"},
		{Name: "Bathroom Sanitization", Category: "bathroom"},
		{Name: "Kitchen Window Wash", Category: "kitchen"},
		{Name: "Living room", Category: "living"},
	}
	opts := Options{Threshold: 0.05, ShouldSort: true, IncludeMatches: true}
	m, err := NewMatcher(jobFields(), opts)
	require.NoError(t, err)

	first := m.Search("kitch", items)
	second := m.Search("kitch", items)
	assert.Equal(t, first, second)
}

func TestSearchBestFieldWins(t *testing.T) {
	items := []job{{Name: "Deep clean", Category: "kitchen"}}
	m, err := NewMatcher(jobFields(), Options{Threshold: 0.5})
	require.NoError(t, err)

	results := m.Search("kitchen", items)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestSearchIncludeMatches(t *testing.T) {
	items := []job{
		{Name: "Oven and oven rack", Category: "Kitchen"},
		{Name: "Vacuum", Category: "Living"},
	}
	m, err := NewMatcher(jobFields(), Options{Threshold: 0.1, IncludeMatches: true})
	require.NoError(t, err)

	t.Run("substring spans in source coordinates", func(t *testing.T) {
		results := m.Search("OVEN", items)
		require.Len(t, results, 1)
		assert.Equal(t, []Span{
			{Field: "name", Start: 0, End: 4},
			{Field: "name", Start: 9, End: 13},
		}, results[0].Matches)
	})

	t.Run("subsequence reports no spans", func(t *testing.T) {
		results := m.Search("vcm", items)
		require.Len(t, results, 1)
		assert.Equal(t, "Vacuum", results[0].Item.Name)
		assert.Empty(t, results[0].Matches)
	})

	t.Run("spans omitted when not requested", func(t *testing.T) {
		plain, err := NewMatcher(jobFields(), Options{Threshold: 0.05})
		require.NoError(t, err)
		results := plain.Search("oven", items)
		require.Len(t, results, 1)
		assert.Nil(t, results[0].Matches)
	})
}

func TestSearchSpansNeverOverlap(t *testing.T) {
	items := []job{{Name: "aaaaa"}}
	m, err := NewMatcher(jobFields(), Options{Threshold: 0.01, IncludeMatches: true})
	require.NoError(t, err)

	results := m.Search("aa", items)
	require.Len(t, results, 1)
	spans := results[0].Matches
	assert.Equal(t, []Span{{Field: "name", Start: 0, End: 2}, {Field: "name", Start: 2, End: 4}}, spans)
	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].End, spans[i].Start)
	}
}

func TestNewMatcherValidation(t *testing.T) {
	_, err := NewMatcher([]Field[job]{{Name: "name"}}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = NewMatcher([]Field[job]{{Name: " ", Get: func(job) string { return "" }}}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidField)

	m, err := NewMatcher[string](nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"value"}, m.Fields())
	results := m.Search("mop", []string{"mop", "broom"})
	require.Len(t, results, 1)
	assert.Equal(t, "mop", results[0].Item)
}

func TestOptionsClamped(t *testing.T) {
	tests := []struct {
		in   Options
		want Options
	}{
		{Options{Threshold: -1, MinMatchCharLength: -3}, Options{Threshold: 0, MinMatchCharLength: 1}},
		{Options{Threshold: 7, MinMatchCharLength: 3}, Options{Threshold: 1, MinMatchCharLength: 3}},
		{Options{Threshold: math.NaN()}, Options{Threshold: DefaultThreshold, MinMatchCharLength: 1}},
	}
	for _, tt := range tests {
		m, err := NewMatcher[string](nil, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.Options())
	}
}

func TestSearchParallelMatchesSequential(t *testing.T) {
	items := make([]job, 0, 1000)
	for i := 0; i < 1000; i++ {
		items = append(items, job{Name: fmt.Sprintf("room %d wipe %d", i%37, i)})
	}
	m, err := NewMatcher(jobFields(), Options{Threshold: 0.05, ShouldSort: true, IncludeMatches: true})
	require.NoError(t, err)

	want := m.Search("room 1", items)
	got, err := m.SearchParallel(context.Background(), "room 1", items, 8)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSearchParallelCancelled(t *testing.T) {
	m, err := NewMatcher(jobFields(), DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.SearchParallel(ctx, "mop", []job{{Name: "mop"}}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeneration(t *testing.T) {
	var g Generation
	first := g.Next()
	assert.True(t, g.Current(first))
	second := g.Next()
	assert.False(t, g.Current(first))
	assert.True(t, g.Current(second))
}

func TestCache(t *testing.T) {
	items := []job{{Name: "mop"}, {Name: "mop floor"}}
	m, err := NewMatcher(jobFields(), Options{Threshold: 0.1, ShouldSort: true})
	require.NoError(t, err)

	c, err := NewCache(m, items, 8)
	require.NoError(t, err)

	first := c.Search("Mop ")
	assert.Equal(t, m.Search("mop", items), first)
	assert.Equal(t, 1, c.Len())

	first[0].Score = -1
	assert.Equal(t, 1.0, c.Search("mop")[0].Score, "cached results are copied")
	assert.Equal(t, 1, c.Len())

	c.Reset([]job{{Name: "dust"}})
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Search("mop"))
}
