package errorutil

import (
	"errors"
	"fmt"
)

const (
	CodeSuccess = 0 // 成功执行

	// 60–69: 用户输入或调用错误
	CodeInvalidUsage = 64 // 命令行用法错误（参数不合法等）
	CodeMissingInput = 65 // 缺失必须输入（如设备、路径等）
	CodePermission   = 67 // 权限不足或操作被拒绝

	// 70–79: 程序自身或依赖错误
	CodeCmdFailed   = 70 // 命令执行失败（catch-all）
	CodeIOError     = 72 // 文件或设备读写失败
	CodeInternalErr = 74 // 内部 bug、panic、未捕捉异常
)

// omitempty 的作用是空字段不出现
type ExitErrorWithCode struct {
	Code        int    `json:"code"`                    // 框架/业务层级错误码
	Message     string `json:"message,omitempty"`       // 可读消息
	CmdExitCode int    `json:"cmd_exit_code,omitempty"` // 原始命令的退出码（仅在执行命令时填充）
	Err         error  `json:"-"`
}

func (e *ExitErrorWithCode) Error() string {
	if e.Err != nil {
		if e.Message != "" {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Exit with code: %d", e.Code)
}

func (e *ExitErrorWithCode) Unwrap() error {
	return e.Err
}

func NewExitError(code int, err error) error {
	return &ExitErrorWithCode{Code: code, Err: err}
}

// os.Exit(errorutil.ExitCodeFromError(err))
func ExitCodeFromError(err error) int {
	if err == nil {
		return CodeSuccess
	}
	var exitErr *ExitErrorWithCode
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return CodeInternalErr
}

// 判断当前的错误是否是带退出码的错误
func HasExitCode(err error) bool {
	var exitErr *ExitErrorWithCode
	return errors.As(err, &exitErr)
}

// 带错误消息的错误，如果有命令退出码需要注入
func NewExitErrorWithMessage(code int, message string, err error, cmdExitCode ...int) error {
	e := &ExitErrorWithCode{Code: code, Message: message, Err: err}
	if len(cmdExitCode) > 0 {
		e.CmdExitCode = cmdExitCode[0]
	}
	return e
}

// NewCmdFailure 用于构造命令执行失败的结构化错误
func NewCmdFailure(cmdExitCode int, message string, err error) error {
	return &ExitErrorWithCode{
		Code:        CodeCmdFailed, // 框架定义的“命令失败”状态
		CmdExitCode: cmdExitCode,   // 实际命令返回码（如 exit 42）
		Message:     message,       // 可读信息
		Err:         err,           // 错误链原始错误
	}
}
