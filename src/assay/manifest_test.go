package assay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Measurements")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseManifest(t *testing.T) {
	content := "\n> Wild type\n" +
		"data one.txt 5\n" +
		"sub/two.txt 100-200\n" +
		"> Mutant\n" +
		"three.txt 30\n"
	path := writeManifest(t, content)
	log, _ := newTestLogger()

	m, err := ParseManifest(path, Options{Log: log})
	require.NoError(t, err)
	require.Len(t, m.Blocks, 2)
	assert.Equal(t, DefaultOutput, m.Output)

	wt := m.Blocks[0]
	assert.Equal(t, "Wild type", wt.Name)
	require.Len(t, wt.Experiments, 2)
	dir := filepath.Dir(path)
	// tokens before the timing spec rejoin into one path
	assert.Equal(t, filepath.Join(dir, "data one.txt"), wt.Experiments[0].Path)
	assert.Nil(t, wt.Experiments[0].Window.Start)
	assert.Equal(t, 5, wt.Experiments[0].Window.End)

	require.NotNil(t, wt.Experiments[1].Window.Start)
	assert.Equal(t, 100, *wt.Experiments[1].Window.Start)
	assert.Equal(t, 200, wt.Experiments[1].Window.End)

	assert.Equal(t, "Mutant", m.Blocks[1].Name)
}

func TestParseManifestDataLineBeforeBlock(t *testing.T) {
	path := writeManifest(t, "orphan.txt 5\n> A\n")
	log, _ := newTestLogger()
	_, err := ParseManifest(path, Options{Log: log})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block not found")
}

func TestParseManifestLineTooShort(t *testing.T) {
	path := writeManifest(t, "> A\njustonefield\n")
	log, _ := newTestLogger()
	_, err := ParseManifest(path, Options{Log: log})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line too short")
}

func TestParseManifestBadTiming(t *testing.T) {
	for _, timing := range []string{"x", "5-", "-", "10-x", "1-2-3"} {
		path := writeManifest(t, "> A\nfile.txt "+timing+"\n")
		log, _ := newTestLogger()
		_, err := ParseManifest(path, Options{Log: log})
		assert.Error(t, err, "timing %q should be fatal", timing)
	}
}

func TestParseManifestLongNameWarns(t *testing.T) {
	path := writeManifest(t, "> this block name is far too long for the legend\nfile.txt 5\n")
	log, cap := newTestLogger()
	_, err := ParseManifest(path, Options{Log: log})
	require.NoError(t, err)
	assert.True(t, cap.Contains("longer than 20 characters"))
}

func TestParseTiming(t *testing.T) {
	tm, err := ParseTiming("300")
	require.NoError(t, err)
	assert.Nil(t, tm.Start)
	assert.Equal(t, 300, tm.End)

	tm, err = ParseTiming("100-200")
	require.NoError(t, err)
	require.NotNil(t, tm.Start)
	assert.Equal(t, 100, *tm.Start)
	assert.Equal(t, 200, tm.End)

	// a bare negative integer is a plain END
	tm, err = ParseTiming("-30")
	require.NoError(t, err)
	assert.Nil(t, tm.Start)
	assert.Equal(t, -30, tm.End)

	_, err = ParseTiming("abc")
	assert.Error(t, err)
}
