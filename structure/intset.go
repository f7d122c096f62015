package structure

/*
 * ============================================================================
 * Intset - 有序整数集合
 * ============================================================================
 *
 * 有序、去重的 int64 序列，是全整数集合的紧凑表示：
 * 1. encoding 记录当前宽度（int16/int32/int64），按成员范围自动升级
 * 2. 有序存储，成员判断用二分查找 O(log n)
 * 3. 插入/删除通过移位保持有序与唯一
 *
 * 宽度升级是单向的：出现超出当前宽度的成员时整体升级，不会降级。
 */

const (
	INTSET_ENC_INT16 = 2 // int16 编码
	INTSET_ENC_INT32 = 4 // int32 编码
	INTSET_ENC_INT64 = 8 // int64 编码
)

// IntsetEncoding 整数集合宽度编码
type IntsetEncoding byte

// Intset 整数集合
type Intset struct {
	encoding IntsetEncoding
	contents []int64 // 有序成员
}

// NewIntset 创建空的整数集合
func NewIntset() *Intset {
	return &Intset{
		encoding: INTSET_ENC_INT16,
		contents: make([]int64, 0),
	}
}

// Len 获取成员数量
func (is *Intset) Len() int {
	return len(is.contents)
}

// Add 添加成员，保持有序与唯一；已存在时返回 false
func (is *Intset) Add(value int64) bool {
	is.upgrade(value)

	idx, exists := is.search(value)
	if exists {
		return false
	}
	is.contents = append(is.contents, 0)
	copy(is.contents[idx+1:], is.contents[idx:])
	is.contents[idx] = value
	return true
}

// Contains 判断成员是否存在（二分查找）
func (is *Intset) Contains(value int64) bool {
	_, exists := is.search(value)
	return exists
}

// Remove 删除成员，不存在时返回 false
func (is *Intset) Remove(value int64) bool {
	idx, exists := is.search(value)
	if !exists {
		return false
	}
	copy(is.contents[idx:], is.contents[idx+1:])
	is.contents = is.contents[:len(is.contents)-1]
	return true
}

// Members 按升序返回所有成员的副本
func (is *Intset) Members() []int64 {
	out := make([]int64, len(is.contents))
	copy(out, is.contents)
	return out
}

// Encoding 获取当前宽度编码
func (is *Intset) Encoding() IntsetEncoding {
	return is.encoding
}

// search 二分查找，返回成员下标或应插入的位置
func (is *Intset) search(value int64) (int, bool) {
	left, right := 0, len(is.contents)-1
	for left <= right {
		mid := (left + right) / 2
		if is.contents[mid] == value {
			return mid, true
		} else if is.contents[mid] < value {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	return left, false
}

// upgrade 按新成员范围升级宽度编码，只升不降
func (is *Intset) upgrade(value int64) {
	var need IntsetEncoding
	if value >= -32768 && value <= 32767 {
		need = INTSET_ENC_INT16
	} else if value >= -2147483648 && value <= 2147483647 {
		need = INTSET_ENC_INT32
	} else {
		need = INTSET_ENC_INT64
	}
	if need > is.encoding {
		is.encoding = need
	}
}
