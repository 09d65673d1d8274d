package sqlite_test

import (
	"context"
	"testing"

	"github.com/mkowalski/kpiq"
	"github.com/mkowalski/kpiq/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFragments() []*kpiq.Fragment {
	return []*kpiq.Fragment{
		{ID: 10, Text: "Scope 1 emissions were 116,092 tCO2e.", Source: "esg_report_2024.pdf", DocType: kpiq.DocTypeESG, Year: 2024},
		{ID: 11, Text: "Revenue reached 26.5 billion euros.", Source: "factset_financials.csv", DocType: kpiq.DocTypeFinancial, Year: 2024},
		{ID: 12, Text: "New press campaign launched.", Source: "press_2023.pdf", DocType: kpiq.DocTypeNews, Year: 2023},
	}
}

func TestFragmentService_ReplaceFragments(t *testing.T) {
	t.Parallel()

	t.Run("stores fragments in order", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFragmentService(db)
		ctx := context.Background()

		require.NoError(t, s.ReplaceFragments(ctx, seedFragments()))

		got, err := s.FindFragments(ctx, kpiq.FragmentFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 10, got[0].ID)
		assert.Equal(t, 11, got[1].ID)
		assert.Equal(t, 12, got[2].ID)
	})

	t.Run("is a wholesale rebuild", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFragmentService(db)
		ctx := context.Background()

		require.NoError(t, s.ReplaceFragments(ctx, seedFragments()))
		require.NoError(t, s.ReplaceFragments(ctx, seedFragments()[:1]))

		got, err := s.FindFragments(ctx, kpiq.FragmentFilter{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 10, got[0].ID)
	})

	t.Run("rejects invalid fragments", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFragmentService(db)

		err := s.ReplaceFragments(context.Background(), []*kpiq.Fragment{{ID: 1, Source: "a.pdf"}})
		require.Error(t, err)
		assert.Equal(t, kpiq.EINVALID, kpiq.ErrorCode(err))
	})
}

func TestFragmentService_FindFragments(t *testing.T) {
	t.Parallel()

	t.Run("filters by doc types", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFragmentService(db)
		ctx := context.Background()
		require.NoError(t, s.ReplaceFragments(ctx, seedFragments()))

		got, err := s.FindFragments(ctx, kpiq.FragmentFilter{
			DocTypes: []kpiq.DocType{kpiq.DocTypeESG, kpiq.DocTypeNews},
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, kpiq.DocTypeESG, got[0].DocType)
		assert.Equal(t, kpiq.DocTypeNews, got[1].DocType)
	})

	t.Run("filters by id", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFragmentService(db)
		ctx := context.Background()
		require.NoError(t, s.ReplaceFragments(ctx, seedFragments()))

		id := 11
		got, err := s.FindFragments(ctx, kpiq.FragmentFilter{ID: &id})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "factset_financials.csv", got[0].Source)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFragmentService(db)
		ctx := context.Background()
		require.NoError(t, s.ReplaceFragments(ctx, seedFragments()))

		got, err := s.FindFragments(ctx, kpiq.FragmentFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 11, got[0].ID)
	})
}

func TestFragmentService_Fingerprint(t *testing.T) {
	t.Parallel()

	t.Run("is stable for identical content", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()

		db1 := MustOpenDB(t)
		s1 := sqlite.NewFragmentService(db1)
		require.NoError(t, s1.ReplaceFragments(ctx, seedFragments()))

		db2 := MustOpenDB(t)
		s2 := sqlite.NewFragmentService(db2)
		require.NoError(t, s2.ReplaceFragments(ctx, seedFragments()))

		fp1, err := s1.Fingerprint(ctx)
		require.NoError(t, err)
		fp2, err := s2.Fingerprint(ctx)
		require.NoError(t, err)
		assert.Equal(t, fp1, fp2)
	})

	t.Run("changes when the store is rebuilt differently", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFragmentService(db)
		ctx := context.Background()

		require.NoError(t, s.ReplaceFragments(ctx, seedFragments()))
		before, err := s.Fingerprint(ctx)
		require.NoError(t, err)

		require.NoError(t, s.ReplaceFragments(ctx, seedFragments()[:2]))
		after, err := s.Fingerprint(ctx)
		require.NoError(t, err)

		assert.NotEqual(t, before, after)
	})
}
