package main

// 一键体检入口:不收任何参数，检查 Phison NVMe 控制器的 PCIe
// 链路协商宽度，打表后退出。退出码 0 表示全部跑满 x4，1 表示有
// 降级或者压根没找到控制器，方便直接挂进自动化
import (
	"os"

	"hw_diag/pkg/hw/nvme"
	"hw_diag/pkg/logutil"
)

func main() {
	// 诊断输出全走标准输出，日志只留告警以上，不干扰表格
	logutil.InitLogger("stdout", logutil.WARN)

	chk := nvme.NewLinkChecker()
	sum, err := chk.Run()

	logutil.CloseLogger()

	if err != nil || sum.Downgraded > 0 {
		os.Exit(1)
	}
	os.Exit(0)
}
