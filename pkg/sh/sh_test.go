package sh

import (
	"testing"

	"hw_diag/pkg/errorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBashANSIQuote(t *testing.T) {
	assert.Equal(t, `$'lspci'`, BashANSIQuote("lspci"))
	assert.Equal(t, `$'a\tb\n'`, BashANSIQuote("a\tb\n"))
	assert.Equal(t, `$'it\'s'`, BashANSIQuote("it's"))
	assert.Equal(t, `$'\001'`, BashANSIQuote("\x01"))
}

func TestBuildCommandLineQuoted(t *testing.T) {
	got := BuildCommandLineQuoted("lspci", []string{"-vvv", "-s", "01:00.0"})
	assert.Equal(t, `$'lspci' $'-vvv' $'-s' $'01:00.0'`, got)
}

func TestRunCommandSuccess(t *testing.T) {
	out, err := RunCommand("sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

// 命令非 0 退出时错误里要带上原始退出码
func TestRunCommandExitCode(t *testing.T) {
	_, err := RunCommand("sh", "-c", "exit 42")
	require.Error(t, err)

	var exitErr *errorutil.ExitErrorWithCode
	assert.ErrorAs(t, err, &exitErr)
	assert.Equal(t, errorutil.CodeCmdFailed, exitErr.Code)
	assert.Equal(t, 42, exitErr.CmdExitCode)
	assert.Equal(t, errorutil.CodeCmdFailed, errorutil.ExitCodeFromError(err))
}

func TestRunCommandEmptyName(t *testing.T) {
	_, err := RunCommand("")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}
