package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/zwo2erg/internal/models"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	st, err := Open("file:" + filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestDriverFor(t *testing.T) {
	require.Equal(t, "libsql", driverFor("libsql://my-db.turso.io?authToken=x"))
	require.Equal(t, "libsql", driverFor("https://my-db.turso.io"))
	require.Equal(t, "sqlite", driverFor("file:./local.db"))
	require.Equal(t, "sqlite", driverFor("/tmp/history.db"))
}

func TestRecordAndListConversions(t *testing.T) {
	st := openTestStorage(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	first := &models.Conversion{
		SourcePath: "a.zwo", OutputPath: "a.erg", Title: "Sweet Spot",
		FTP: 250, Segments: 3, Samples: 9, DurationSeconds: 1935,
		Warnings: []string{"#0 FreeRide: no target power"}, Status: models.StatusOK,
		CreatedAt: base,
	}
	second := &models.Conversion{
		SourcePath: "b.zwo", Title: "Broken", Status: models.StatusFailed,
		Error: "missing field", CreatedAt: base.Add(time.Minute),
	}
	require.NoError(t, st.RecordConversion(ctx, first))
	require.NoError(t, st.RecordConversion(ctx, second))
	require.NotEmpty(t, first.ID)

	all, err := st.ListConversions(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Broken", all[0].Title, "newest first")
	require.Equal(t, *first, all[1])

	failed, err := st.ListConversions(ctx, ListFilter{Status: models.StatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)

	byTitle, err := st.ListConversions(ctx, ListFilter{Title: "sweet"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	require.Equal(t, first.ID, byTitle[0].ID)

	limited, err := st.ListConversions(ctx, ListFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	got, err := st.GetConversion(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "missing field", got.Error)

	missing, err := st.GetConversion(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	exists, err := st.ConversionExists(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, exists)

	n, err := st.ClearConversions(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestRecordConversion_RejectsDuplicateID(t *testing.T) {
	st := openTestStorage(t)
	ctx := context.Background()

	c := &models.Conversion{SourcePath: "a.zwo", Title: "A", Status: models.StatusOK}
	require.NoError(t, st.RecordConversion(ctx, c))

	dup := &models.Conversion{ID: c.ID, SourcePath: "b.zwo", Title: "B", Status: models.StatusOK}
	err := st.RecordConversion(ctx, dup)
	require.ErrorIs(t, err, ErrDuplicateConversion)

	got, err := st.GetConversion(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "A", got.Title)

	fresh := &models.Conversion{ID: "fixed-id", SourcePath: "c.zwo", Title: "C", Status: models.StatusOK}
	require.NoError(t, st.RecordConversion(ctx, fresh))
	exists, err := st.ConversionExists(ctx, "fixed-id")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestExportImportHistory(t *testing.T) {
	src := openTestStorage(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i, title := range []string{"One", "Two", "Three"} {
		require.NoError(t, src.RecordConversion(ctx, &models.Conversion{
			SourcePath: title + ".zwo", Title: title, Segments: i + 1, Samples: 2 * (i + 1),
			Status: models.StatusOK, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	dump := filepath.Join(t.TempDir(), "dump.toml")
	n, err := src.ExportHistoryToTOML(ctx, dump)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	dst := openTestStorage(t)
	require.NoError(t, dst.RecordConversion(ctx, &models.Conversion{SourcePath: "old.zwo", Title: "Old", Status: models.StatusOK}))

	n, err = dst.ImportHistoryFromTOML(ctx, dump)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	want, err := src.ListConversions(ctx, ListFilter{})
	require.NoError(t, err)
	got, err := dst.ListConversions(ctx, ListFilter{})
	require.NoError(t, err)
	require.Equal(t, want, got)
}
