package str

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTrimStrFf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "address")
	require.NoError(t, os.WriteFile(path, []byte("0000:01:00.0\n"), 0644))

	assert.Equal(t, "0000:01:00.0", ReadTrimStrFf(path))
	assert.Equal(t, "0000:01:00.0\n", ReadStrFf(path))
	assert.Equal(t, "", ReadTrimStrFf(filepath.Join(t.TempDir(), "missing")))
}

func TestDefaultStr(t *testing.T) {
	assert.Equal(t, "unmapped", DefaultStr("", "unmapped"))
	assert.Equal(t, "nvme0n1", DefaultStr("nvme0n1", "unmapped"))
}

func TestFirstField(t *testing.T) {
	assert.Equal(t, "01:00.0",
		FirstField("01:00.0 Non-Volatile memory controller: Phison Electronics"))
	assert.Equal(t, "a", FirstField("  a  b "))
	assert.Equal(t, "", FirstField("   "))
	assert.Equal(t, "", FirstField(""))
}
