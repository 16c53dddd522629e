package bit

import "fmt"

type BitField struct {
	Name       string
	Start, Len byte
}

type FieldValue struct {
	BitField *BitField
	Value    uint64
}

func (f *BitField) Eval(val uint64) FieldValue {
	v := ExtractBits(val, f.Start, f.Len)
	return FieldValue{
		BitField: f, // 保留引用
		Value:    v,
	}
}

func (f *FieldValue) String() string {
	return f.BitField.Name + fmt.Sprintf("=0x%X [bits %d:%d]",
		f.Value, f.BitField.Start+f.BitField.Len-1, f.BitField.Start)
}

// 批量从多个字段提取值
func EvalAll(fields []*BitField, val uint64) []FieldValue {
	var out []FieldValue
	for _, f := range fields {
		out = append(out, f.Eval(val))
	}
	return out
}

// SetFieldNames 返回所有取值非 0 的字段名，常用于把状态寄存器翻译成
// 告警标志列表
func SetFieldNames(fields []*BitField, val uint64) []string {
	var names []string
	for _, f := range fields {
		if f.Eval(val).Value != 0 {
			names = append(names, f.Name)
		}
	}
	return names
}

// 对齐的格式化输出
func FormatFieldValues(vals []FieldValue) string {
	maxNameLen := 0
	for _, v := range vals {
		if l := len(v.BitField.Name); l > maxNameLen {
			maxNameLen = l
		}
	}

	var out string
	for _, v := range vals {
		// 这里只是一个模板，需要%，所以要在前面打%转义
		format := fmt.Sprintf("%%-%ds = 0x%%-X [bits %%2d:%%d]\n", maxNameLen)
		out += fmt.Sprintf(format,
			v.BitField.Name,
			v.Value,
			v.BitField.Start+v.BitField.Len-1,
			v.BitField.Start,
		)
	}
	return out
}
