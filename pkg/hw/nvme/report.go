package nvme

import (
	"fmt"
	"os"
	"strings"

	"hw_diag/pkg/toolutil/str"

	"github.com/mattn/go-runewidth"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// 表头和列宽固定，行产出一条打一条
var (
	tableHeaders = []string{"PCI Address", "NVMe Device", "Speed", "Width", "Status"}
	tableWidths  = []int{14, 12, 8, 6, 10}
)

// padCell 按显示宽度补齐，设备描述里混进宽字符也不会把列拱歪
func padCell(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}

func (c *LinkChecker) printHeader() {
	cells := make([]string, len(tableHeaders))
	for i, h := range tableHeaders {
		cells[i] = padCell(h, tableWidths[i])
	}
	line := strings.Join(cells, " | ")
	fmt.Fprintln(c.Out, line)
	fmt.Fprintln(c.Out, strings.Repeat("-", runewidth.StringWidth(line)))
}

func (c *LinkChecker) printRow(rec ControllerRecord) {
	speed := "-"
	if rec.SpeedOK {
		speed = fmt.Sprintf("%dGT/s", rec.Speed)
	}
	width := "-"
	if rec.WidthOK {
		width = fmt.Sprintf("x%d", rec.Width)
	}

	cells := []string{
		padCell(rec.PCIAddr, tableWidths[0]),
		padCell(str.DefaultStr(rec.NvmeName, "Not mapped"), tableWidths[1]),
		padCell(speed, tableWidths[2]),
		padCell(width, tableWidths[3]),
		padCell(rec.Status, tableWidths[4]),
	}
	fmt.Fprintln(c.Out, strings.Join(cells, " | "))
}

func (c *LinkChecker) printSummary(sum RunSummary) {
	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "Total %s controllers: %d\n", c.Vendor, sum.Total)
	fmt.Fprintf(c.Out, "Downgraded links: %d\n", sum.Downgraded)
	fmt.Fprintf(c.Out, "Full x%d links: %d\n", ExpectedWidth, sum.FullWidth())

	if sum.Downgraded > 0 {
		fmt.Fprintf(c.Out,
			"[WARN] %d controller(s) not running at full x%d width, "+
				"check riser/backplane seating\n",
			sum.Downgraded, ExpectedWidth)
	}
}

// buildJSONReport 用 sjson 逐键拼出报告再统一美化。
// 未定义的速率/宽度键直接缺省，不写 null
func buildJSONReport(records []ControllerRecord, sum RunSummary) []byte {
	js := "{}"
	js, _ = sjson.Set(js, "summary.total", sum.Total)
	js, _ = sjson.Set(js, "summary.downgraded", sum.Downgraded)
	js, _ = sjson.Set(js, "summary.full_width", sum.FullWidth())

	for i, rec := range records {
		base := fmt.Sprintf("controllers.%d.", i)
		js, _ = sjson.Set(js, base+"pci_address", rec.PCIAddr)
		js, _ = sjson.Set(js, base+"device",
			str.DefaultStr(rec.NvmeName, "unmapped"))
		if rec.SpeedOK {
			js, _ = sjson.Set(js, base+"link_speed_gt_s", rec.Speed)
		}
		if rec.WidthOK {
			js, _ = sjson.Set(js, base+"link_width", rec.Width)
		}
		js, _ = sjson.Set(js, base+"status", rec.Status)
	}

	return pretty.Pretty([]byte(js))
}

func writeJSONReport(path string, records []ControllerRecord, sum RunSummary) error {
	return os.WriteFile(path, buildJSONReport(records, sum), 0644)
}
