package nvme

import (
	"regexp"
	"strconv"
	"strings"
)

// lspci -vvv 的链路状态行长这样:
//
//	LnkSta: Speed 16GT/s (ok), Width x4 (ok)
//
// 宽度找 x 后面紧跟的小整数，速率找紧跟 GT/s 单位的整数。
// 两个解析器都返回 (值, 是否成功)，解析失败不报错，由调用方
// 把字段留成未定义
var (
	widthPattern = regexp.MustCompile(`x(\d+)`)
	speedPattern = regexp.MustCompile(`(\d+)GT/s`)
)

// lnkStaLine 从 lspci -vvv 的整段输出里挑出 LnkSta 行。
// LnkCap(能力上限)和 LnkSta(协商结果)格式相同，必须先锁定行
// 再做 token 匹配，否则会拿到上限值
func lnkStaLine(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "LnkSta:") {
			return line, true
		}
	}
	return "", false
}

func parseLinkWidth(line string) (int, bool) {
	m := widthPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// 注意只匹配整数速率. Gen1/Gen2 的 2.5GT/s / 5GT/s 在老口径里
// 本来就不参与判定，小数点前缀被丢掉也不影响结论
func parseLinkSpeed(line string) (int, bool) {
	m := speedPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}
