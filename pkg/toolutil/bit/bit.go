package bit

// SplitUint16ToBytes 将 uint16 拆成高位和低位
func SplitUint16ToBytes(val uint16) (hi, lo byte) {
	hi = byte(val >> 8)
	lo = byte(val & 0xFF)
	return
}

// JoinBytesLEUint16 将低位在前的两个字节拼接为 uint16
// PMBus 的字读取返回就是小端：d[0] | d[1]<<8
func JoinBytesLEUint16(lo, hi byte) uint16 {
	return uint16(lo) | uint16(hi)<<8
}

type Uint interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// 提取 val 中 [start:start+width) 范围的字段
// v16 := uint16(0b1011001111001010)
// fmt.Printf("%08b\n", ExtractBits(v16, 4, 4))  // 输出 1110
func ExtractBits[T Uint](val T, start, width byte) T {
	var mask T = (1 << width) - 1
	return (val >> start) & mask
}
