package sh

import (
	"fmt"
	"strings"
)

// BashANSIQuote 将任意字符串转为 $'...' 形式的 ANSI-C 样式安全字符串
// 主要用于把执行过的命令行原样记录到日志里，方便复制粘贴复现
func BashANSIQuote(s string) string {
	var b strings.Builder
	b.WriteString("$'")

	for _, r := range s {
		switch r {
		case 27: // Escape (ASCII 27)
			b.WriteString(`\E`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		default:
			if r < 32 || r == 127 {
				// 对不可打印字符使用 \ooo 八进制转义
				b.WriteString(fmt.Sprintf(`\%03o`, r))
			} else {
				b.WriteRune(r)
			}
		}
	}

	b.WriteString("'")
	return b.String()
}

func BuildCommandLineQuoted(name string, args []string) string {
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, BashANSIQuote(name))
	for _, arg := range args {
		quoted = append(quoted, BashANSIQuote(arg))
	}
	return strings.Join(quoted, " ")
}
