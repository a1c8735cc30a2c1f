package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "15", cfg.Pricing.PintPrice.String())

	catalog, err := cfg.Pricing.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "8.99", catalog.FlatShipping().StringFixed(2))
}

func TestLoad_YAMLOverridesSomeRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glaze.yaml")
	content := []byte(`
server:
  addr: ":9090"
pricing:
  flat_shipping: 12.50
  max_discount: "0.25"
  wet_prices:
    gallon: 140
  strict_wet_size: true
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Pricing.StrictWetSize)
	assert.Equal(t, "12.5", cfg.Pricing.FlatShipping.String())
	assert.Equal(t, "0.25", cfg.Pricing.MaxDiscount.String())
	assert.Equal(t, "15", cfg.Pricing.PintPrice.String(), "untouched rates keep defaults")

	catalog, err := cfg.Pricing.Catalog()
	require.NoError(t, err)
	gallon, ok := catalog.WetPrice(types.SizeGallon)
	require.True(t, ok)
	assert.Equal(t, "140.00", gallon.StringFixed(2))
	pint, ok := catalog.WetPrice(types.SizePint)
	require.True(t, ok)
	assert.Equal(t, "25.00", pint.StringFixed(2))
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glaze.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pricing":{"private_surcharge":"5.99"}}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "5.99", cfg.Pricing.PrivateSurcharge.String())
}

func TestLoad_InvalidTableIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glaze.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pricing":{"step_discount":"1.5"}}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.Pricing.Catalog()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glaze.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pricing":`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GLAZE_ADDR", "127.0.0.1:7000")
	t.Setenv("GLAZE_LOG_FORMAT", "json")
	t.Setenv("GLAZE_STRICT_WET_SIZE", "true")
	t.Setenv("GLAZE_ARCHIVE_DIR", "/var/lib/glazeworks")
	t.Setenv("GLAZE_ARCHIVE_BACKEND", "sqlite")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Pricing.StrictWetSize)
	assert.Equal(t, "/var/lib/glazeworks", cfg.Archive.Dir)
	assert.Equal(t, "sqlite", cfg.Archive.Backend)
}

func TestSave_RoundTripsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "glaze.yml")
	cfg := Default()
	cfg.Server.Addr = ":1234"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", loaded.Server.Addr)
	assert.Equal(t, "4.99", loaded.Pricing.PrivateSurcharge.String())
}
