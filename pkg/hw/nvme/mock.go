package nvme

import (
	"fmt"
	"os"
	"path/filepath"
)

// CannedRunner 用罐头输出代替真实命令，mock 场景和单元测试共用
type CannedRunner struct {
	Lspci  string            // lspci 清单输出
	LnkSta map[string]string // 按地址返回 lspci -vvv -s 的输出
	Lsblk  string            // lsblk -d -n -o NAME,TYPE 的输出
}

func (r *CannedRunner) Run(name string, args ...string) (string, error) {
	switch name {
	case "lspci":
		if len(args) == 0 {
			return r.Lspci, nil
		}
		// lspci -vvv -s <addr> 的地址在最后一个参数
		return r.LnkSta[args[len(args)-1]], nil
	case "lsblk":
		return r.Lsblk, nil
	}
	return "", fmt.Errorf("unexpected command: %s", name)
}

// mockers 注册所有 mock 场景
var Mockers = map[string]func(root string) (*CannedRunner, error){
	"simple":     MockSimple,
	"downgraded": MockDowngraded,
	"unmapped":   MockUnmapped,
}

const (
	mockListLine = "%s Non-Volatile memory controller: " +
		"Phison Electronics Corporation PS5018-E18 PCIe4 NVMe Controller (rev 01)\n"

	// 完整输出里 LnkCap 和 LnkSta 并存，解析必须只认 LnkSta
	mockVerbose = "\t\tLnkCap:\tPort #0, Speed 16GT/s, Width x4, ASPM not supported\n" +
		"\t\tLnkSta:\tSpeed %sGT/s (ok), Width x%d (ok)\n"
)

type mockCtrl struct {
	Addr      string // lspci 形式的地址，如 01:00.0
	SysfsAddr string // sysfs 的完整地址，如 0000:01:00.0
	Ctrl      string // 控制器项名，如 nvme0
	Speed     string
	Width     int
	InSysfs   bool // false 表示类目录下没有这一项，走顺序兜底
}

// MockSimple 两个控制器全部跑满 8GT/s x4，预期全 OK、退出码 0
func MockSimple(root string) (*CannedRunner, error) {
	return mockSetup(root, []mockCtrl{
		{"01:00.0", "0000:01:00.0", "nvme0", "8", 4, true},
		{"02:00.0", "0000:02:00.0", "nvme1", "8", 4, true},
	})
}

// MockDowngraded 第二个控制器 Gen4 缩到 x2，预期告警、退出码 1
func MockDowngraded(root string) (*CannedRunner, error) {
	return mockSetup(root, []mockCtrl{
		{"01:00.0", "0000:01:00.0", "nvme0", "16", 4, true},
		{"02:00.0", "0000:02:00.0", "nvme1", "16", 2, true},
	})
}

// MockUnmapped 类目录是空的，映射只能靠 lsblk 顺序猜测
func MockUnmapped(root string) (*CannedRunner, error) {
	return mockSetup(root, []mockCtrl{
		{"01:00.0", "0000:01:00.0", "nvme0", "32", 4, false},
		{"02:00.0", "0000:02:00.0", "nvme1", "32", 4, false},
	})
}

// mockSetup 清空再重建伪 sysfs 目录，并据同一份清单生成罐头命令
// 输出。mock 出来的控制器项是普通目录加 address 文件，走的是
// 映射逻辑里的 address 退路
func mockSetup(root string, ctrls []mockCtrl) (*CannedRunner, error) {
	if err := os.RemoveAll(root); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}

	runner := &CannedRunner{LnkSta: make(map[string]string)}
	for _, m := range ctrls {
		runner.Lspci += fmt.Sprintf(mockListLine, m.Addr)
		runner.LnkSta[m.Addr] = fmt.Sprintf(mockVerbose, m.Speed, m.Width)
		runner.Lsblk += fmt.Sprintf("%sn1 disk\n", m.Ctrl)

		if !m.InSysfs {
			continue
		}
		d := filepath.Join(root, m.Ctrl)
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(d, "address"),
			[]byte(m.SysfsAddr+"\n"), 0644); err != nil {
			return nil, err
		}
	}
	return runner, nil
}
