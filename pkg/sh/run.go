package sh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"hw_diag/pkg/errorutil"
	"hw_diag/pkg/logutil"
)

// 外部盘点命令（lspci/lsblk/nvme）都是秒级返回的，超时兜底即可
const DefaultTimeout = 30 * time.Second

var (
	ErrEmptyCommand = errors.New("empty command")
	ErrTimeOut      = errors.New("command timed out")
)

// RunCommand 执行命令并返回标准输出，默认超时 DefaultTimeout
// 标准错误单独收集，只在 debug 日志里出现，不混进解析用的输出
func RunCommand(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	return RunCommandContext(ctx, name, args...)
}

// RunCommandContext 是带 context 的版本，nil context 会被替换成默认超时
func RunCommandContext(ctx context.Context, name string, args ...string) (string, error) {
	if name == "" {
		return "", ErrEmptyCommand
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
	}

	logutil.Debug("执行命令: %s", BuildCommandLineQuoted(name, args))

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if stderr.Len() > 0 {
		logutil.Debug("命令标准错误输出: %s", stderr.String())
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return stdout.String(), fmt.Errorf("%w: %s", ErrTimeOut, name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// 命令自身的退出码随错误一起带上去，方便上层原样转发
		return stdout.String(), errorutil.NewCmdFailure(exitErr.ExitCode(),
			fmt.Sprintf("%s exited with code %d", name, exitErr.ExitCode()), err)
	}

	// 命令不存在、权限不足等都走这里
	return stdout.String(), fmt.Errorf("run %s failed: %w", name, err)
}
