package rank

import (
	"slices"
	"testing"
)

func TestRanksOrdering(t *testing.T) {
	t.Parallel()

	r := Ranks{"b.html": 0.2, "a.html": 0.2, "c.html": 0.5, "d.html": 0.1}

	t.Run("sorted by page", func(t *testing.T) {
		t.Parallel()

		want := []Entry{
			{Page: "a.html", Rank: 0.2},
			{Page: "b.html", Rank: 0.2},
			{Page: "c.html", Rank: 0.5},
			{Page: "d.html", Rank: 0.1},
		}
		if got := r.Sorted(); !slices.Equal(got, want) {
			t.Errorf("Sorted() = %v, want %v", got, want)
		}
	})

	t.Run("by rank with ties by page", func(t *testing.T) {
		t.Parallel()

		want := []Entry{
			{Page: "c.html", Rank: 0.5},
			{Page: "a.html", Rank: 0.2},
			{Page: "b.html", Rank: 0.2},
			{Page: "d.html", Rank: 0.1},
		}
		if got := r.ByRank(); !slices.Equal(got, want) {
			t.Errorf("ByRank() = %v, want %v", got, want)
		}
	})

	t.Run("sum", func(t *testing.T) {
		t.Parallel()
		assertSum(t, r.Sum(), 1.0, 1e-12)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		var empty Ranks
		if got := empty.Sorted(); len(got) != 0 {
			t.Errorf("expected no entries, got %v", got)
		}
		if empty.Sum() != 0 {
			t.Errorf("expected zero sum, got %v", empty.Sum())
		}
	})
}
