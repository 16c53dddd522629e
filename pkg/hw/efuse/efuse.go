package efuse

import (
	"fmt"
	"strconv"

	"hw_diag/pkg/errorutil"
	"hw_diag/pkg/logutil"

	"github.com/spf13/cobra"
)

// EfuseCmd 定义根命令 "efuse"，子命令的动词和产线脚本保持一致:
// status / on / off / on_all / off_all / clear
func EfuseCmd() *cobra.Command {
	var port string
	var speedKHz int

	cmd := &cobra.Command{
		Use:   "efuse",
		Short: "MP5922 eFuse 的 PMBus 监控与通断控制",
	}

	cmd.PersistentFlags().StringVarP(&port, "port", "p", "/dev/ttyACM0", "USB-ISS 适配器的串口设备")
	cmd.PersistentFlags().IntVar(&speedKHz, "i2c-speed", 100, "I2C 速率(kHz): 100/400/1000")

	// withMonitor 统一处理开串口、解锁、收尾
	withMonitor := func(action func(m *Monitor) error) error {
		bus, err := OpenUSBISS(port, speedKHz)
		if err != nil {
			return errorutil.NewExitErrorWithMessage(
				errorutil.CodeIOError, "open usb-iss failed", err)
		}
		defer func() {
			if cerr := bus.Close(); cerr != nil {
				logutil.Warn("关闭串口失败: %v", cerr)
			}
		}()

		m := NewMonitor(bus)
		if err := m.Unlock(); err != nil {
			return errorutil.NewExitError(errorutil.CodeIOError, err)
		}
		return action(m)
	}

	// parsePage 校验页号参数
	parsePage := func(arg string) (byte, error) {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 || n >= len(Rails) {
			return 0, errorutil.NewExitErrorWithMessage(
				errorutil.CodeInvalidUsage,
				fmt.Sprintf("无效的页号: %s (可用 0-%d)", arg, len(Rails)-1), err)
		}
		return byte(n), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "打印所有 rail 的 RAW + 换算状态",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMonitor(func(m *Monitor) error {
				m.Out = cmd.OutOrStdout()
				return m.ShowStatus()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "on <page>",
		Short: "打开指定 rail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := parsePage(args[0])
			if err != nil {
				return err
			}
			return withMonitor(func(m *Monitor) error {
				return m.RailEnable(page)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "off <page>",
		Short: "关闭指定 rail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := parsePage(args[0])
			if err != nil {
				return err
			}
			return withMonitor(func(m *Monitor) error {
				return m.RailDisable(page)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "on_all",
		Short: "按页序打开全部 rail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMonitor(func(m *Monitor) error {
				return m.EnableAll()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "off_all",
		Short: "按页序关闭全部 rail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMonitor(func(m *Monitor) error {
				return m.DisableAll()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "清除所有已锁存的故障位",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMonitor(func(m *Monitor) error {
				if err := m.ClearFaults(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "[OK] Faults cleared")
				return nil
			})
		},
	})

	return cmd
}
