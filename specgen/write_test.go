package specgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{Specs: []Spec{
		{Declaration: "ntp", Path: filepath.Join("spec", "classes", "ntp_spec.rb"), Content: "a\n"},
		{Declaration: "ntp::peer", Path: filepath.Join("spec", "defines", "peer_spec.rb"), Content: "b\n"},
	}}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	out, err := Write(sampleResult(), dir, false)
	require.NoError(t, err)
	assert.Len(t, out.Written, 2)
	assert.Empty(t, out.Skipped)

	data, err := os.ReadFile(filepath.Join(dir, "spec", "defines", "peer_spec.rb"))
	require.NoError(t, err)
	assert.Equal(t, "b\n", string(data))
}

func TestWriteSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "spec", "classes", "ntp_spec.rb")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0755))
	require.NoError(t, os.WriteFile(existing, []byte("edited by hand\n"), 0644))

	out, err := Write(sampleResult(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("spec", "classes", "ntp_spec.rb")}, out.Skipped)
	assert.Len(t, out.Written, 1)

	data, _ := os.ReadFile(existing)
	assert.Equal(t, "edited by hand\n", string(data))

	out, err = Write(sampleResult(), dir, true)
	require.NoError(t, err)
	assert.Len(t, out.Written, 2)
	data, _ = os.ReadFile(existing)
	assert.Equal(t, "a\n", string(data))
}
