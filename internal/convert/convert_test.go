package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/zwo2erg/internal/erg"
	"github.com/misterclayt0n/zwo2erg/internal/models"
)

const exampleZWO = `<workout_file>
  <workout>
    <Warmup Duration="600" PowerLow="0.50" PowerHigh="0.75"/>
    <SteadyState Duration="1200" Power="0.65"/>
    <IntervalsT Repeat="3" OnDuration="30" OffDuration="15" OnPower="1.20" OffPower="0.50"/>
  </workout>
</workout_file>`

const exampleERG = `[COURSE HEADER]
VERSION = 2
UNITS = ENGLISH
FILE NAME = example
FTP = 250
SECONDS WATTS
[END COURSE HEADER]
[COURSE DATA]
0	125
600	188
600	163
1800	300
1830	125
1845	300
1875	125
1890	300
1920	125
1935	125
[END COURSE DATA]
`

func TestConvert_Example(t *testing.T) {
	res, err := Convert([]byte(exampleZWO), Options{FallbackTitle: "example", FTP: 250})
	require.NoError(t, err)

	require.Equal(t, exampleERG, res.Output)
	require.Equal(t, "example", res.Metadata.Title)
	require.Equal(t, 3, res.Segments)
	require.Equal(t, 9, res.Samples)
	require.Equal(t, 1935, res.DurationSeconds)
	require.Equal(t, 250.0, res.FTP)
	require.Empty(t, res.Warnings)
}

func TestConvert_Deterministic(t *testing.T) {
	opts := Options{FallbackTitle: "x", Options: erg.Options{CourseText: true}}
	a, err := Convert([]byte(exampleZWO), opts)
	require.NoError(t, err)
	b, err := Convert([]byte(exampleZWO), opts)
	require.NoError(t, err)
	require.Equal(t, a.Output, b.Output)
}

func TestConvert_PropagatesTypedErrors(t *testing.T) {
	_, err := Convert([]byte(`<workout_file><workout><SteadyState Power="1"/></workout></workout_file>`), Options{})
	require.ErrorIs(t, err, models.ErrMissingField)

	_, err = Convert([]byte(`not xml`), Options{})
	require.ErrorIs(t, err, models.ErrMalformedDocument)
}

func TestWriteFile_ReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.erg")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, WriteFile(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.erg")
	require.Error(t, WriteFile(path, []byte("x")))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestBatch_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.zwo")
	bad := filepath.Join(dir, "bad.zwo")
	require.NoError(t, os.WriteFile(good, []byte(exampleZWO), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(`<workout_file><workout><Ramp Duration="60"/></workout></workout_file>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	files, err := FindWorkouts(dir)
	require.NoError(t, err)
	require.Equal(t, []string{bad, good}, files)

	outDir := t.TempDir()
	results := Batch(context.Background(), files, BatchOptions{
		Options:   Options{FTP: 250},
		OutputDir: outDir,
		Workers:   2,
	})
	require.Len(t, results, 2)

	require.ErrorIs(t, results[0].Err, models.ErrMissingField)
	_, err = os.Stat(filepath.Join(outDir, "bad.erg"))
	require.True(t, os.IsNotExist(err), "failed conversion must not leave an output")

	require.NoError(t, results[1].Err)
	require.Equal(t, filepath.Join(outDir, "good.erg"), results[1].Output)
	data, err := os.ReadFile(results[1].Output)
	require.NoError(t, err)
	require.Contains(t, string(data), "FILE NAME = good\n")
}

func TestBatch_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.zwo")
	require.NoError(t, os.WriteFile(src, []byte(exampleZWO), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Batch(ctx, []string{src}, BatchOptions{})
	require.ErrorIs(t, results[0].Err, context.Canceled)
	_, err := os.Stat(filepath.Join(dir, "a.erg"))
	require.True(t, os.IsNotExist(err))
}
