package structure

import "encoding/binary"

/*
 * ============================================================================
 * Listpack - 紧凑序列
 * ============================================================================
 *
 * 单块连续缓冲区，保存一个变长编码的元素序列：
 *
 * +--------+--------+--------+--------+-----+--------+--------+
 * | Total  | Num    | Entry1 | Entry2 | ... | EntryN | 0xFF   |
 * | Bytes  | Elem   |        |        |     |        | (EOF)  |
 * | (4B)   | (2B)   |        |        |     |        |        |
 * +--------+--------+--------+--------+-----+--------+--------+
 *
 * 每个元素 = [编码头][内容][backlen]。
 *
 * 【编码格式】
 * - 7-bit 整数:   0xxxxxxx (0-127)
 * - 6-bit 字符串: 10xxxxxx (长度在编码字节中, <= 63 字节)
 * - 13-bit 整数:  110xxxxx xxxxxxxx (-4096 到 4095)
 * - 12-bit 字符串: 1110xxxx xxxxxxxx (长度 <= 4095 字节)
 * - 16-bit 整数:  11110001 + 2 字节
 * - 24-bit 整数:  11110010 + 3 字节
 * - 32-bit 整数:  11110011 + 4 字节
 * - 64-bit 整数:  11110100 + 8 字节
 * - 32-bit 字符串: 11110000 + 4 字节长度 + 内容
 *
 * 编码选择是确定性的：整数优先选能容纳的最窄形式，字符串按长度
 * 选 6-bit / 12-bit / 32-bit 形式，保证往返测试可复现。
 *
 * 【Backlen】
 * 每个元素尾部有一个 1-5 字节的变长 backlen，记录该元素
 * （编码头 + 内容）的字节数，从元素末尾向前扫描即可解码，
 * 这就是不需要双向链表也能向前遍历的原因。
 *
 * 【位置句柄】
 * 对外的"位置"是缓冲区内的字节偏移量（int），-1 表示无位置。
 * 任何插入/删除都会使已有句柄失效，调用方不得跨修改复用句柄
 * （这是使用约定，不在类型层面强制）。
 *
 * 【不变式】
 * - header 的 total 字段恒等于缓冲区物理长度
 * - num 字段恒等于 EOF 之前的元素个数
 * - 每次修改都是整体重建后换入新缓冲区（copy-extend-splice），
 *   出错时旧缓冲区保持原样，结构始终处于良构状态
 */

const (
	LP_HDR_SIZE = 6 // 4 字节总长度 + 2 字节元素数量
	LP_EOF      = 0xFF

	// 编码类型
	LP_ENCODING_7BIT_UINT = 0x00
	LP_ENCODING_6BIT_STR  = 0x80
	LP_ENCODING_13BIT_INT = 0xC0
	LP_ENCODING_12BIT_STR = 0xE0
	LP_ENCODING_16BIT_INT = 0xF1
	LP_ENCODING_24BIT_INT = 0xF2
	LP_ENCODING_32BIT_INT = 0xF3
	LP_ENCODING_64BIT_INT = 0xF4
	LP_ENCODING_32BIT_STR = 0xF0

	// 掩码
	LP_ENCODING_7BIT_UINT_MASK = 0x80
	LP_ENCODING_6BIT_STR_MASK  = 0xC0
	LP_ENCODING_13BIT_INT_MASK = 0xE0
	LP_ENCODING_12BIT_STR_MASK = 0xF0
)

// NoPos 表示"无位置"的句柄值
const NoPos = -1

// Listpack 紧凑序列
type Listpack struct {
	data []byte // 缓冲区，长度恒等于 header 中的 total
}

// NewListpack 创建空的 listpack
func NewListpack() *Listpack {
	lp := &Listpack{data: make([]byte, LP_HDR_SIZE+1)}
	lp.setTotalBytes(LP_HDR_SIZE + 1)
	lp.setNumElements(0)
	lp.data[LP_HDR_SIZE] = LP_EOF
	return lp
}

// setTotalBytes 设置总字节数
func (lp *Listpack) setTotalBytes(v uint32) {
	binary.LittleEndian.PutUint32(lp.data[0:4], v)
}

// TotalBytes 获取总字节数
func (lp *Listpack) TotalBytes() int {
	return int(binary.LittleEndian.Uint32(lp.data[0:4]))
}

// setNumElements 设置元素数量
func (lp *Listpack) setNumElements(v uint16) {
	binary.LittleEndian.PutUint16(lp.data[4:6], v)
}

// Length 获取元素数量
func (lp *Listpack) Length() int {
	return int(binary.LittleEndian.Uint16(lp.data[4:6]))
}

// Bytes 获取底层缓冲区（只读视图）
func (lp *Listpack) Bytes() []byte {
	return lp.data
}

// First 获取第一个元素的位置
func (lp *Listpack) First() int {
	if lp.Length() == 0 {
		return NoPos
	}
	return LP_HDR_SIZE
}

// Last 获取最后一个元素的位置
func (lp *Listpack) Last() int {
	if lp.Length() == 0 {
		return NoPos
	}
	// EOF 前是最后一个元素的 backlen，向前扫描解码
	entryLen, backlenSize := decodeBacklen(lp.data[:len(lp.data)-1])
	return len(lp.data) - 1 - backlenSize - int(entryLen)
}

// Seek 按下标定位元素，负数从尾部开始计数，越界返回 NoPos
// 元素宽度可变，没有随机访问捷径，复杂度 O(index)
func (lp *Listpack) Seek(index int) int {
	count := lp.Length()
	if index < 0 {
		index = count + index
	}
	if index < 0 || index >= count {
		return NoPos
	}
	p := lp.First()
	for i := 0; i < index; i++ {
		next, err := lp.Next(p)
		if err != nil || next == NoPos {
			return NoPos
		}
		p = next
	}
	return p
}

// Next 获取下一个元素的位置，末尾返回 NoPos
func (lp *Listpack) Next(p int) (int, error) {
	entryLen, err := lp.entryLenAt(p)
	if err != nil {
		return NoPos, err
	}
	q := p + entryLen + encodeBacklenSize(uint64(entryLen))
	if q >= len(lp.data) {
		return NoPos, ErrEncoding
	}
	if lp.data[q] == LP_EOF {
		return NoPos, nil
	}
	return q, nil
}

// Prev 获取上一个元素的位置，开头返回 NoPos
// 通过向前扫描前一个元素的 backlen 定位
func (lp *Listpack) Prev(p int) (int, error) {
	if p < LP_HDR_SIZE || p >= len(lp.data) {
		return NoPos, ErrRange
	}
	if p == LP_HDR_SIZE {
		return NoPos, nil
	}
	entryLen, backlenSize := decodeBacklen(lp.data[:p])
	prev := p - backlenSize - int(entryLen)
	if prev < LP_HDR_SIZE {
		return NoPos, ErrEncoding
	}
	return prev, nil
}

// Get 解码位置 p 的元素值
// 字符串编码返回 (sval, 0, false)，整数编码返回 (nil, ival, true)
func (lp *Listpack) Get(p int) ([]byte, int64, bool, error) {
	if p < LP_HDR_SIZE || p >= len(lp.data)-1 {
		return nil, 0, false, ErrRange
	}
	b := lp.data[p:]
	enc := b[0]

	switch {
	case enc&LP_ENCODING_7BIT_UINT_MASK == 0:
		return nil, int64(enc), true, nil

	case enc&LP_ENCODING_6BIT_STR_MASK == LP_ENCODING_6BIT_STR:
		strLen := int(enc & 0x3F)
		if 1+strLen > len(b) {
			return nil, 0, false, ErrEncoding
		}
		val := make([]byte, strLen)
		copy(val, b[1:1+strLen])
		return val, 0, false, nil

	case enc&LP_ENCODING_13BIT_INT_MASK == LP_ENCODING_13BIT_INT:
		if len(b) < 2 {
			return nil, 0, false, ErrEncoding
		}
		val := int64(int(enc)&0x1F)<<8 | int64(b[1])
		if val >= 4096 {
			val -= 8192
		}
		return nil, val, true, nil

	case enc&LP_ENCODING_12BIT_STR_MASK == LP_ENCODING_12BIT_STR:
		if len(b) < 2 {
			return nil, 0, false, ErrEncoding
		}
		strLen := int(enc&0xF)<<8 | int(b[1])
		if 2+strLen > len(b) {
			return nil, 0, false, ErrEncoding
		}
		val := make([]byte, strLen)
		copy(val, b[2:2+strLen])
		return val, 0, false, nil

	case enc == LP_ENCODING_16BIT_INT:
		if len(b) < 3 {
			return nil, 0, false, ErrEncoding
		}
		return nil, int64(int16(binary.LittleEndian.Uint16(b[1:3]))), true, nil

	case enc == LP_ENCODING_24BIT_INT:
		if len(b) < 4 {
			return nil, 0, false, ErrEncoding
		}
		val := int64(b[1]) | int64(b[2])<<8 | int64(b[3])<<16
		if val >= 8388608 {
			val -= 16777216
		}
		return nil, val, true, nil

	case enc == LP_ENCODING_32BIT_INT:
		if len(b) < 5 {
			return nil, 0, false, ErrEncoding
		}
		return nil, int64(int32(binary.LittleEndian.Uint32(b[1:5]))), true, nil

	case enc == LP_ENCODING_64BIT_INT:
		if len(b) < 9 {
			return nil, 0, false, ErrEncoding
		}
		return nil, int64(binary.LittleEndian.Uint64(b[1:9])), true, nil

	case enc == LP_ENCODING_32BIT_STR:
		if len(b) < 5 {
			return nil, 0, false, ErrEncoding
		}
		strLen := int(binary.LittleEndian.Uint32(b[1:5]))
		if 5+strLen > len(b) {
			return nil, 0, false, ErrEncoding
		}
		val := make([]byte, strLen)
		copy(val, b[5:5+strLen])
		return val, 0, false, nil
	}

	return nil, 0, false, ErrEncoding
}

// GetBytes 解码位置 p 的元素并统一返回字节形式
// 整数编码的元素转换为十进制表示
func (lp *Listpack) GetBytes(p int) ([]byte, error) {
	sval, ival, isInt, err := lp.Get(p)
	if err != nil {
		return nil, err
	}
	if isInt {
		return formatInt64(ival), nil
	}
	return sval, nil
}

// Append 在尾部追加元素，返回新元素的位置
// 内容能严格解析为 int64 时使用整数编码
func (lp *Listpack) Append(value []byte) int {
	p := len(lp.data) - 1 // EOF 位置
	lp.splice(p, 0, encodeEntry(value), 1)
	return p
}

// AppendInteger 在尾部追加整数元素，返回新元素的位置
func (lp *Listpack) AppendInteger(v int64) int {
	p := len(lp.data) - 1
	lp.splice(p, 0, encodeIntEntry(v), 1)
	return p
}

// Prepend 在头部插入元素，返回新元素的位置
func (lp *Listpack) Prepend(value []byte) int {
	lp.splice(LP_HDR_SIZE, 0, encodeEntry(value), 1)
	return LP_HDR_SIZE
}

// Insert 在位置 p 之前（after=false）或之后（after=true）插入元素，
// 返回新元素的位置。已有句柄在调用后全部失效。
func (lp *Listpack) Insert(value []byte, p int, after bool) (int, error) {
	at := p
	if after {
		entryLen, err := lp.entryLenAt(p)
		if err != nil {
			return NoPos, err
		}
		at = p + entryLen + encodeBacklenSize(uint64(entryLen))
	} else if p < LP_HDR_SIZE || p >= len(lp.data)-1 {
		return NoPos, ErrRange
	}
	lp.splice(at, 0, encodeEntry(value), 1)
	return at, nil
}

// Delete 删除位置 p 的元素，返回紧随其后的元素位置，
// 删除后没有后继元素时返回 NoPos
func (lp *Listpack) Delete(p int) (int, error) {
	entryLen, err := lp.entryLenAt(p)
	if err != nil {
		return NoPos, err
	}
	total := entryLen + encodeBacklenSize(uint64(entryLen))
	lp.splice(p, total, nil, -1)
	// 重建后原先的后继元素落在同一偏移量上
	if lp.data[p] == LP_EOF {
		return NoPos, nil
	}
	return p, nil
}

// splice 整体重建缓冲区：在 at 处删除 del 字节并插入 ins，
// 先构造新缓冲区再换入，保证修改原子
func (lp *Listpack) splice(at, del int, ins []byte, countDelta int) {
	newTotal := len(lp.data) - del + len(ins)
	out := make([]byte, newTotal)
	copy(out, lp.data[:at])
	copy(out[at:], ins)
	copy(out[at+len(ins):], lp.data[at+del:])

	count := lp.Length() + countDelta
	lp.data = out
	lp.setTotalBytes(uint32(newTotal))
	lp.setNumElements(uint16(count))
}

// entryLenAt 获取位置 p 的元素长度（编码头 + 内容，不含 backlen）
func (lp *Listpack) entryLenAt(p int) (int, error) {
	if p < LP_HDR_SIZE || p >= len(lp.data)-1 || lp.data[p] == LP_EOF {
		return 0, ErrRange
	}
	b := lp.data[p:]
	enc := b[0]

	switch {
	case enc&LP_ENCODING_7BIT_UINT_MASK == 0:
		return 1, nil
	case enc&LP_ENCODING_6BIT_STR_MASK == LP_ENCODING_6BIT_STR:
		return 1 + int(enc&0x3F), nil
	case enc&LP_ENCODING_13BIT_INT_MASK == LP_ENCODING_13BIT_INT:
		return 2, nil
	case enc&LP_ENCODING_12BIT_STR_MASK == LP_ENCODING_12BIT_STR:
		if len(b) < 2 {
			return 0, ErrEncoding
		}
		return 2 + (int(enc&0xF)<<8 | int(b[1])), nil
	case enc == LP_ENCODING_16BIT_INT:
		return 3, nil
	case enc == LP_ENCODING_24BIT_INT:
		return 4, nil
	case enc == LP_ENCODING_32BIT_INT:
		return 5, nil
	case enc == LP_ENCODING_64BIT_INT:
		return 9, nil
	case enc == LP_ENCODING_32BIT_STR:
		if len(b) < 5 {
			return 0, ErrEncoding
		}
		return 5 + int(binary.LittleEndian.Uint32(b[1:5])), nil
	}
	return 0, ErrEncoding
}

// ============================================================================
// 编码辅助函数
// ============================================================================

// encodeEntry 编码完整元素（编码头 + 内容 + backlen）
// 整数优先：内容能严格解析为 int64 时选整数形式
func encodeEntry(value []byte) []byte {
	if v, ok := parseInt64(value); ok {
		return encodeIntEntry(v)
	}
	entry := make([]byte, encodeStringSize(len(value)))
	encodeString(entry, value)
	return appendBacklen(entry)
}

// encodeIntEntry 编码整数元素（编码头 + 内容 + backlen）
func encodeIntEntry(v int64) []byte {
	entry := make([]byte, encodeIntegerSize(v))
	encodeInteger(entry, v)
	return appendBacklen(entry)
}

// appendBacklen 在元素后追加 backlen
func appendBacklen(entry []byte) []byte {
	l := uint64(len(entry))
	out := make([]byte, len(entry)+encodeBacklenSize(l))
	copy(out, entry)
	encodeBacklen(out[len(entry):], l)
	return out
}

// encodeStringSize 计算字符串编码后的长度
func encodeStringSize(strLen int) int {
	if strLen < 64 {
		return 1 + strLen
	} else if strLen < 4096 {
		return 2 + strLen
	}
	return 5 + strLen
}

// encodeString 编码字符串
func encodeString(buf []byte, s []byte) {
	n := len(s)
	if n < 64 {
		buf[0] = byte(n) | LP_ENCODING_6BIT_STR
		copy(buf[1:], s)
	} else if n < 4096 {
		buf[0] = byte(n>>8) | LP_ENCODING_12BIT_STR
		buf[1] = byte(n)
		copy(buf[2:], s)
	} else {
		buf[0] = LP_ENCODING_32BIT_STR
		binary.LittleEndian.PutUint32(buf[1:5], uint32(n))
		copy(buf[5:], s)
	}
}

// encodeIntegerSize 计算整数编码后的长度（选最窄形式）
func encodeIntegerSize(v int64) int {
	if v >= 0 && v <= 127 {
		return 1
	} else if v >= -4096 && v <= 4095 {
		return 2
	} else if v >= -32768 && v <= 32767 {
		return 3
	} else if v >= -8388608 && v <= 8388607 {
		return 4
	} else if v >= -2147483648 && v <= 2147483647 {
		return 5
	}
	return 9
}

// encodeInteger 编码整数
func encodeInteger(buf []byte, v int64) {
	if v >= 0 && v <= 127 {
		buf[0] = byte(v)
	} else if v >= -4096 && v <= 4095 {
		if v < 0 {
			v = (1 << 13) + v
		}
		buf[0] = byte(v>>8) | LP_ENCODING_13BIT_INT
		buf[1] = byte(v)
	} else if v >= -32768 && v <= 32767 {
		buf[0] = LP_ENCODING_16BIT_INT
		binary.LittleEndian.PutUint16(buf[1:3], uint16(v))
	} else if v >= -8388608 && v <= 8388607 {
		if v < 0 {
			v = (1 << 24) + v
		}
		buf[0] = LP_ENCODING_24BIT_INT
		buf[1] = byte(v)
		buf[2] = byte(v >> 8)
		buf[3] = byte(v >> 16)
	} else if v >= -2147483648 && v <= 2147483647 {
		buf[0] = LP_ENCODING_32BIT_INT
		binary.LittleEndian.PutUint32(buf[1:5], uint32(v))
	} else {
		buf[0] = LP_ENCODING_64BIT_INT
		binary.LittleEndian.PutUint64(buf[1:9], uint64(v))
	}
}

// encodeBacklenSize 计算 backlen 编码后的长度
func encodeBacklenSize(l uint64) int {
	if l <= 127 {
		return 1
	} else if l < 16383 {
		return 2
	} else if l < 2097151 {
		return 3
	} else if l < 268435455 {
		return 4
	}
	return 5
}

// encodeBacklen 编码 backlen
// 高位块在前，续接的后续字节带 128 标志位，从尾部向前扫描即可解码
func encodeBacklen(buf []byte, l uint64) {
	if l <= 127 {
		buf[0] = byte(l)
	} else if l < 16383 {
		buf[0] = byte(l >> 7)
		buf[1] = byte(l&127) | 128
	} else if l < 2097151 {
		buf[0] = byte(l >> 14)
		buf[1] = byte((l>>7)&127) | 128
		buf[2] = byte(l&127) | 128
	} else if l < 268435455 {
		buf[0] = byte(l >> 21)
		buf[1] = byte((l>>14)&127) | 128
		buf[2] = byte((l>>7)&127) | 128
		buf[3] = byte(l&127) | 128
	} else {
		buf[0] = byte(l >> 28)
		buf[1] = byte((l>>21)&127) | 128
		buf[2] = byte((l>>14)&127) | 128
		buf[3] = byte((l>>7)&127) | 128
		buf[4] = byte(l&127) | 128
	}
}

// decodeBacklen 从切片末尾向前扫描解码 backlen，返回值和占用字节数
func decodeBacklen(p []byte) (uint64, int) {
	val := uint64(0)
	shift := uint(0)
	size := 0

	for i := len(p) - 1; i >= 0; i-- {
		val |= uint64(p[i]&127) << shift
		size++
		if (p[i] & 128) == 0 {
			break
		}
		shift += 7
		if shift > 28 {
			return 0, 0
		}
	}
	return val, size
}

// parseInt64 严格解析十进制整数
// 拒绝空串、前导零、"+" 前缀和溢出，保证整数编码往返无损
func parseInt64(b []byte) (int64, bool) {
	if len(b) == 0 || len(b) > 20 {
		return 0, false
	}
	i := 0
	negative := false
	if b[0] == '-' {
		negative = true
		i = 1
		if i == len(b) {
			return 0, false
		}
	}
	// "0" 合法，"00"、"07" 会破坏往返
	if b[i] == '0' && len(b)-i > 1 {
		return 0, false
	}
	var v uint64
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, false
		}
		d := uint64(b[i] - '0')
		if v > (1<<63-1)/10 {
			return 0, false
		}
		v = v*10 + d
	}
	if negative {
		if v > 1<<63 {
			return 0, false
		}
		return -int64(v), true
	}
	if v > 1<<63-1 {
		return 0, false
	}
	return int64(v), true
}

// IsInteger 判断内容整体是否能严格解析为 int64
func IsInteger(b []byte) bool {
	_, ok := parseInt64(b)
	return ok
}

// formatInt64 整数转十进制字节串
func formatInt64(v int64) []byte {
	if v == 0 {
		return []byte("0")
	}
	var tmp [20]byte
	i := len(tmp)
	negative := v < 0
	u := uint64(v)
	if negative {
		u = uint64(-v)
	}
	for u > 0 {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
	}
	if negative {
		i--
		tmp[i] = '-'
	}
	out := make([]byte, len(tmp)-i)
	copy(out, tmp[i:])
	return out
}
