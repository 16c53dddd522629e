package main

import (
	"fmt"
	"os"

	"hw_diag/pkg/errorutil"
	"hw_diag/pkg/hw/efuse"
	"hw_diag/pkg/hw/nvme"
	"hw_diag/pkg/logutil"

	"github.com/spf13/cobra"
)

const TOOL_VERSION = "1.0.0+20260828"

func main() {
	var rootCmd = &cobra.Command{
		Use:   "hwdiag",
		Short: fmt.Sprintf("Hwdiag v%s 是平台硬件诊断工具，支持 nvme/efuse 等子命令", TOOL_VERSION),
		Long: "        _               _  _              \n" +
			"       | |__  __      __| |(_)  __ _  __ _ \n" +
			"       | '_ \\ \\ \\ /\\ / /| || | / _` |/ _` |\n" +
			"       | | | | \\ V  V / | || || (_| | (_| |\n" +
			"       |_| |_|  \\_/\\_/  |_||_| \\__,_|\\__, |\n" +
			"                                     |___/ \n" +
			fmt.Sprintf("\nHwdiag v%s 是平台硬件诊断工具，支持 nvme/efuse 等子命令\n", TOOL_VERSION),
	}

	rootCmd.AddCommand(nvme.NVMECmd())
	rootCmd.AddCommand(efuse.EfuseCmd())

	var logFile string
	logLevel := logutil.Level(logutil.WARN)

	// 定义全局flag(屁股后面带P的函数才支持短选项)
	rootCmd.PersistentFlags().VarP(&logLevel, "log-level", "e", "日志等级(DEBUG/INFO/WARN/ERROR)")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "l", "hwdiag.log", "日志文件名(默认hwdiag.log，stdout 表示标准输出)")
	// 阻止 Cobra 在命令参数错误时输出帮助
	rootCmd.SilenceUsage = true
	// 阻止Cobra自动打印RunE返回的错误内容
	rootCmd.SilenceErrors = true

	// 等待Cobra的flag解析完成后
	// PersistentPreRunE 回调，这个钩子会在用户的命令解析完成、flag 值填充后执行
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logutil.InitLogger(logFile, int(logLevel))
		// InitLogger 只生效一次，如果更早的日志已经触发了缺省初始化，
		// 这里还要把级别改成 flag 指定的值
		logutil.SetLogLevel(int(logLevel))
		return nil
	}

	if err := rootCmd.Execute(); err != nil {
		if errorutil.HasExitCode(err) {
			// 带错误码的是业务上预期内的失败，不用打堆栈
			logutil.Warn("命令执行失败: %v", err)
		} else {
			logutil.Error("命令执行失败: %v", err)
		}
		logutil.CloseLogger()
		os.Exit(errorutil.ExitCodeFromError(err))
	}

	// 不要用defer，因为defer是在函数返回前执行的，而不是os.Exit()执行前执行
	logutil.CloseLogger()
	os.Exit(0)
}
