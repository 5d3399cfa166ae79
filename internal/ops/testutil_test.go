package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/metbands/internal/config"
)

// writeSubject writes a recording: n rows with the given MET value.
func writeSubject(t *testing.T, dir, id string, n int, met float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("time,annotation\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "2021-06-01 10:00:%02d.%02d,\"7030 sitting;MET %.1f\"\n", (i/100)%60, i%100, met)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".csv"), []byte(b.String()), 0o644))
}

func writeManifest(t *testing.T, dir string, ids ...string) string {
	t.Helper()
	path := filepath.Join(dir, "Metadata1.csv")
	content := "pid,age\n"
	for _, id := range ids {
		content += id + ",30\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T, dataDir, manifestPath, outDir string, formats ...string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ManifestPath = manifestPath
	cfg.DataDir = dataDir
	cfg.OutputPath = filepath.Join(outDir, "result_1.xlsx")
	if len(formats) > 0 {
		cfg.Formats = formats
	}
	cfg.Workers = 2
	return cfg
}
