package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marquage/expedition/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRows(t *testing.T) {
	rows, err := DecodeRows(strings.NewReader(`[
		{"numver": 1021, "numpal": "P1", "nbcolis": "64", "pdsChoosen": 798.5, "client": "PRIMEUR"},
		{"numver": null, "numpal": "P2", "colis": 12, "extra": true}
	]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PRIMEUR", rows[0].Field(report.KeyClient).String())
	assert.Equal(t, "64", rows[0].Field(report.KeyPackageCount).String())
	assert.True(t, rows[1].Field(report.KeyVersement).IsNull())

	wrapped, err := DecodeRows(strings.NewReader(`{"rows": [{"numpal": "P9"}]}`))
	require.NoError(t, err)
	require.Len(t, wrapped, 1)

	empty, err := DecodeRows(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, bad := range []string{"", "  ", "[{", `{"rows": 3}`, "42"} {
		_, err := DecodeRows(strings.NewReader(bad))
		assert.Error(t, err, bad)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"numpal": "P1"}, {"numpal": "P2"}]`), 0o644))

	rows, err := File{Path: path}.Rows(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = File{Path: path + ".missing"}.Rows(context.Background(), Query{})
	assert.Error(t, err)
}

func TestStaticAndFunc(t *testing.T) {
	var s Source = Static{{}, {}}
	rows, err := s.Rows(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Rows(ctx, Query{})
	assert.ErrorIs(t, err, context.Canceled)

	boom := errors.New("procedure failed")
	var seen Query
	s = Func(func(_ context.Context, q Query) ([]report.Row, error) {
		seen = q
		return nil, boom
	})
	_, err = s.Rows(context.Background(), Query{Chosen: "pdsbru"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "pdsbru", seen.Chosen)
}
