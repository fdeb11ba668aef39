package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudslate/weatherdeck/internal/domain"
)

func TestSQLitePort_GetSet(t *testing.T) {
	port, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer port.Close()

	_, ok, err := port.Get("unit")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, port.Set("unit", "celsius"))
	require.NoError(t, port.Set("unit", "fahrenheit")) // upsert

	v, ok, err := port.Get("unit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fahrenheit", v)
}

func TestSQLitePort_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	port, err := OpenSQLite(path)
	require.NoError(t, err)

	s := New(port, logger)
	require.NoError(t, s.Load())
	require.NoError(t, s.SetUnit(domain.UnitFahrenheit))
	require.NoError(t, s.RecordSearch("Tokyo"))
	require.NoError(t, s.AddFavorite("Oslo"))
	require.NoError(t, port.Close())

	port2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer port2.Close()

	s2 := New(port2, logger)
	require.NoError(t, s2.Load())

	p := s2.Preferences()
	assert.Equal(t, domain.UnitFahrenheit, p.Unit)
	assert.Equal(t, []string{"Tokyo"}, p.History)
	assert.Equal(t, []string{"Oslo"}, p.Favorites)
}
