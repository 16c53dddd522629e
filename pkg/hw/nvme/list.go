package nvme

import (
	"fmt"
	"io"
	"strings"

	"hw_diag/pkg/logutil"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// ListCmd 定义子命令 list:借 nvme-cli 的 JSON 输出打一张盘清单，
// 只是方便现场看盘，没有判定逻辑
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出系统里的 NVMe 盘(需要 nvme-cli)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDevices(shellRunner{}, cmd.OutOrStdout())
		},
	}
	return cmd
}

var listHeaders = []string{"Device", "Model", "Serial", "FW", "Size"}
var listWidths = []int{14, 30, 20, 10, 10}

func listDevices(runner Runner, out io.Writer) error {
	raw, err := runner.Run("nvme", "list", "-o", "json")
	if err != nil {
		// 没装 nvme-cli 不算失败，提示一下就行
		logutil.Debug("nvme list 执行失败: %v", err)
		fmt.Fprintln(out, "nvme-cli not available, skip device listing")
		return nil
	}

	devices := gjson.Get(raw, "Devices").Array()
	if len(devices) == 0 {
		fmt.Fprintln(out, "No NVMe devices reported by nvme-cli")
		return nil
	}

	cells := make([]string, len(listHeaders))
	for i, h := range listHeaders {
		cells[i] = padCell(h, listWidths[i])
	}
	header := strings.Join(cells, " | ")
	fmt.Fprintln(out, header)
	fmt.Fprintln(out, strings.Repeat("-", len(header)))

	for _, d := range devices {
		size := "-"
		if phys := d.Get("PhysicalSize"); phys.Exists() {
			size = humanize.IBytes(phys.Uint())
		}
		row := []string{
			padCell(d.Get("DevicePath").String(), listWidths[0]),
			padCell(strings.TrimSpace(d.Get("ModelNumber").String()), listWidths[1]),
			padCell(strings.TrimSpace(d.Get("SerialNumber").String()), listWidths[2]),
			padCell(strings.TrimSpace(d.Get("Firmware").String()), listWidths[3]),
			padCell(size, listWidths[4]),
		}
		fmt.Fprintln(out, strings.Join(row, " | "))
	}
	return nil
}
