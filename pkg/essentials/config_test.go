package essentials_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := essentials.LoadConfig("")
	require.NoError(t, err)
	if diff := cmp.Diff(essentials.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	cfg, err = essentials.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Mix.Parties)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "session_label: table-7\nshuffle:\n  rows: 2\nmix:\n  timeout: 5s\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := essentials.LoadConfig(path)
	require.NoError(t, err)

	want := essentials.DefaultConfig()
	want.SessionLabel = "table-7"
	want.Shuffle.Rows = 2
	want.Mix.Timeout = 5 * time.Second
	want.Log.Format = "json"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := essentials.DefaultConfig()
	cfg.SessionLabel = "roundtrip"
	cfg.Mix.Parties = 5
	require.NoError(t, cfg.Save(path))

	got, err := essentials.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad yaml":   "shuffle: [",
		"one column": "shuffle:\n  cols: 1\n",
		"one party":  "mix:\n  parties: 1\n",
		"no timeout": "mix:\n  timeout: 0s\n",
		"log format": "log:\n  format: xml\n",
		"zero rows":  "shuffle:\n  rows: 0\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, filepath.Base(t.Name())+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
			_, err := essentials.LoadConfig(path)
			require.Error(t, err)
		})
	}
}
