package nvme

import (
	"fmt"
	"os"

	"hw_diag/pkg/errorutil"

	"github.com/spf13/cobra"
)

// NVMECmd 定义根命令 "nvme"
func NVMECmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nvme",
		Short: "NVMe 盘相关的诊断工具",
	}

	cmd.AddCommand(LinkCheckCmd())
	cmd.AddCommand(ListCmd())
	return cmd
}

// LinkCheckCmd 定义子命令 link_check:检查控制器的 PCIe 链路协商
// 宽度是否跑满。所有 flag 都有默认值，裸执行的行为和产线上的
// 一键脚本完全一致
func LinkCheckCmd() *cobra.Command {
	var vendor, jsonFile, sysfsRoot, mockScenario string

	cmd := &cobra.Command{
		Use:   "link_check",
		Short: "检查 NVMe 控制器的 PCIe 链路协商宽度/速率",
		RunE: func(cmd *cobra.Command, args []string) error {
			chk := NewLinkChecker()
			chk.Vendor = vendor
			chk.SysfsRoot = sysfsRoot
			chk.JSONFile = jsonFile

			// 指定了 mock 场景就先造数据，跑完清掉。造数据会先清空
			// sysfs 根目录，所以必须显式换掉默认根，绝不能指向真的
			// /sys/class/nvme
			if mockScenario != "" {
				if sysfsRoot == DefaultSysfsRoot {
					return errorutil.NewExitErrorWithMessage(
						errorutil.CodeInvalidUsage,
						"--mock-scenario 必须配合非默认的 --sysfs-root 使用", nil)
				}
				defer func() {
					_ = os.RemoveAll(sysfsRoot)
				}()

				m, ok := Mockers[mockScenario]
				if !ok {
					return errorutil.NewExitError(errorutil.CodeInvalidUsage,
						fmt.Errorf("未知 mock 场景：%s", mockScenario))
				}
				runner, err := m(sysfsRoot)
				if err != nil {
					return err
				}
				chk.Runner = runner
			}

			sum, err := chk.Run()
			if err != nil {
				return errorutil.NewExitErrorWithMessage(
					errorutil.CodeMissingInput, "link check failed", err)
			}
			if sum.Downgraded > 0 {
				return errorutil.NewExitErrorWithMessage(
					errorutil.CodeCmdFailed,
					fmt.Sprintf("%d controller(s) at degraded link width",
						sum.Downgraded), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vendor, "vendor", DefaultVendor, "控制器厂商名(大小写不敏感的子串匹配)")
	cmd.Flags().StringVar(&jsonFile, "json-file", "", "保存 JSON 报告到文件")
	cmd.Flags().StringVar(&sysfsRoot, "sysfs-root", DefaultSysfsRoot, "NVMe 类目录(用于 mock 测试)")
	cmd.Flags().StringVar(&mockScenario, "mock-scenario", "",
		"指定 mock 场景(simple, downgraded, unmapped), 为空则不打桩")
	return cmd
}
