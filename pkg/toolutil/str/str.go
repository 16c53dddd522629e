// 简单的字符串操作库
package str

import (
	"os"
	"strings"
)

// 从文件读取原始字符串
func ReadStrFf(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(b)
}

// ReadTrimStrFf 读取文件并去掉首尾空白，sysfs 单值文件基本都要这样处理
func ReadTrimStrFf(path string) string {
	return strings.TrimSpace(ReadStrFf(path))
}

// 字符串为空的时候设置字符串的默认值
func DefaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// FirstField 返回第一个空白分隔的字段，没有则返回空串
func FirstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
