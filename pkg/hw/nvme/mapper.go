package nvme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"hw_diag/pkg/logutil"
	"hw_diag/pkg/toolutil/str"
)

// mapDevice 把 PCI 地址换算成 OS 的块设备名，两级查找，谁先命中
// 算谁的；都没命中返回空串，这是正常可上报的结果，不是错误
func (c *LinkChecker) mapDevice(pciAddr string, index int) string {
	if name, ok := c.mapBySysfs(pciAddr); ok {
		return name
	}
	if name, ok := c.mapByOrder(index); ok {
		return name
	}
	return ""
}

// mapBySysfs 是权威的一级查找:遍历 NVMe 类目录下的控制器项，
// 每一项本身就是指向 PCI 设备树的符号链接，链接内容里带着总线
// 地址。lspci 清单里的地址(01:00.0)是 sysfs 完整地址
// (0000:01:00.0)的后缀，所以用子串匹配而不是全等
func (c *LinkChecker) mapBySysfs(pciAddr string) (string, bool) {
	entries, err := os.ReadDir(c.SysfsRoot)
	if err != nil {
		logutil.Debug("读取 %s 失败: %v", c.SysfsRoot, err)
		return "", false
	}

	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "nvme") {
			continue
		}
		ctrlPath := filepath.Join(c.SysfsRoot, name)

		target, err := os.Readlink(ctrlPath)
		if err != nil {
			// 不是符号链接(比如 mock 出来的目录)就退回 address
			// 文件，内核也在这里记录同一份总线地址
			addr := str.ReadTrimStrFf(filepath.Join(ctrlPath, "address"))
			if addr != "" && strings.Contains(addr, pciAddr) {
				return normalizeNamespace(name), true
			}
			continue
		}

		if strings.Contains(target, pciAddr) {
			// 设备名取链接目标自己的末段，去掉前面整条路径前缀
			return normalizeNamespace(filepath.Base(target)), true
		}
	}
	return "", false
}

// nvme0 / nvme0n1 / nvme0n1p2 都归一化成第一个命名空间 nvme0n1
var ctrlNamePattern = regexp.MustCompile(`^(nvme\d+)`)

func normalizeNamespace(base string) string {
	m := ctrlNamePattern.FindStringSubmatch(base)
	if m == nil {
		return base
	}
	return m[1] + "n1"
}

// mapByOrder 是兜底的二级查找:假设 lsblk 枚举 nvme 磁盘的顺序
// 和 lspci 枚举控制器的顺序一致，把第 N 个地址配给第 N 块盘。
// 两个命令的输出顺序没有任何契约保证，混插异构盘的机器上可能
// 配错，只能算尽力而为
func (c *LinkChecker) mapByOrder(index int) (string, bool) {
	if !c.blockLoaded {
		c.blockDisks = c.listNvmeDisks()
		c.blockLoaded = true
	}

	if index < 0 || index >= len(c.blockDisks) {
		return "", false
	}
	return c.blockDisks[index], true
}

// listNvmeDisks 取 lsblk 的 <名字 类型> 清单，只留 disk 类型的
// nvme 设备，保持命令输出顺序
func (c *LinkChecker) listNvmeDisks() []string {
	out, err := c.Runner.Run("lsblk", "-d", "-n", "-o", "NAME,TYPE")
	if err != nil {
		logutil.Debug("lsblk 执行失败: %v", err)
	}

	var disks []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || fields[1] != "disk" {
			continue
		}
		if strings.HasPrefix(fields[0], "nvme") {
			disks = append(disks, fields[0])
		}
	}
	return disks
}
