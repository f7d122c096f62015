package structure

/*
 * ============================================================================
 * List 数据结构 - Quicklist
 * ============================================================================
 *
 * List 只有一种编码：OBJ_ENCODING_QUICKLIST。
 * 列表没有 intset 那样的"全整数"捷径，小列表直接落在只有
 * 一个 listpack 节点的 quicklist 上，本身就是紧凑表示，
 * 不需要单独的 listpack 编码和来回转换。
 */

// RedisList List 对象
type RedisList struct {
	quicklist *Quicklist
}

// NewList 创建新的 List
func NewList() *RedisList {
	return &RedisList{quicklist: NewQuicklist()}
}

// Encoding 获取当前编码
func (rl *RedisList) Encoding() ListEncoding {
	return OBJ_ENCODING_QUICKLIST
}

// Len 获取列表长度 - O(1)
func (rl *RedisList) Len() int {
	return rl.quicklist.Count()
}

// PushHead 在头部插入元素
func (rl *RedisList) PushHead(value []byte) {
	rl.quicklist.PushHead(value)
}

// PushTail 在尾部插入元素
func (rl *RedisList) PushTail(value []byte) {
	rl.quicklist.PushTail(value)
}

// PopHead 弹出头部元素，空列表返回 ErrEmptyList
func (rl *RedisList) PopHead() ([]byte, error) {
	return rl.quicklist.PopHead()
}

// PopTail 弹出尾部元素，空列表返回 ErrEmptyList
func (rl *RedisList) PopTail() ([]byte, error) {
	return rl.quicklist.PopTail()
}

// Index 按下标取元素，负数从尾部计数
func (rl *RedisList) Index(i int) ([]byte, bool) {
	return rl.quicklist.Index(i)
}

// Rotate 尾部元素移到头部
func (rl *RedisList) Rotate() {
	rl.quicklist.Rotate()
}

// Range 返回 [start, stop] 闭区间的惰性迭代器
func (rl *RedisList) Range(start, stop int) *QuicklistIterator {
	return rl.quicklist.Range(start, stop)
}
