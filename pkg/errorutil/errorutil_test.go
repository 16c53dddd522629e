package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeFromError(t *testing.T) {
	assert.Equal(t, CodeSuccess, ExitCodeFromError(nil))

	err := NewExitError(CodeInvalidUsage, errors.New("bad flag"))
	assert.Equal(t, CodeInvalidUsage, ExitCodeFromError(err))

	// 包在错误链里也要能取到
	wrapped := fmt.Errorf("outer: %w",
		NewExitErrorWithMessage(CodeCmdFailed, "degraded", nil))
	assert.Equal(t, CodeCmdFailed, ExitCodeFromError(wrapped))

	// 没带错误码的按内部错误算
	assert.Equal(t, CodeInternalErr, ExitCodeFromError(errors.New("boom")))
}

func TestHasExitCode(t *testing.T) {
	assert.True(t, HasExitCode(NewExitError(CodeIOError, errors.New("io"))))
	assert.True(t, HasExitCode(fmt.Errorf("outer: %w",
		NewExitError(CodeIOError, nil))))
	assert.False(t, HasExitCode(errors.New("plain")))
	assert.False(t, HasExitCode(nil))
}

func TestNewCmdFailure(t *testing.T) {
	cause := errors.New("exit status 42")
	err := NewCmdFailure(42, "lspci exited with code 42", cause)

	var exitErr *ExitErrorWithCode
	assert.ErrorAs(t, err, &exitErr)
	assert.Equal(t, CodeCmdFailed, exitErr.Code)
	assert.Equal(t, 42, exitErr.CmdExitCode)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "lspci exited with code 42")
}
