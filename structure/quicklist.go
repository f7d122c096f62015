package structure

/*
 * ============================================================================
 * Quicklist - listpack 节点的双向链表
 * ============================================================================
 *
 * 每个节点是一个完整的 listpack，节点内元素数量由 fill 上限约束，
 * 两端 push 在当前端节点满时分配新节点。
 *
 * 这样设计的好处：
 * 1. 两端 O(1) push/pop
 * 2. 随机访问 O(n/fill)：先按节点计数跳过整节点，再在节点内 seek
 * 3. 指针开销被 fill 个元素摊薄，内存紧凑
 *
 * 【Fill 策略】
 * Redis 的 fill 约定里负数表示按字节预算（-2 约等于每节点 8KB）。
 * 这里采用固定元素数上限（默认 128，ListMaxNodeEntries 可覆盖），
 * 语义等价且确定性更好。
 *
 * Count 字段冗余记录总元素数，保证 O(1) 取长度。
 */

// quicklistNode quicklist 节点
type quicklistNode struct {
	prev *quicklistNode
	next *quicklistNode
	lp   *Listpack
}

// Quicklist 快速列表
type Quicklist struct {
	head  *quicklistNode
	tail  *quicklistNode
	count int // 总元素数（冗余，O(1) 读取）
	nodes int // 节点数
	fill  int // 单节点最大元素数
}

// NewQuicklist 创建空的 quicklist，fill 取当前配置
func NewQuicklist() *Quicklist {
	return NewQuicklistFill(ListMaxNodeEntries)
}

// NewQuicklistFill 创建指定 fill 上限的 quicklist
func NewQuicklistFill(fill int) *Quicklist {
	if fill <= 0 {
		fill = DefaultListMaxNodeEntries
	}
	return &Quicklist{fill: fill}
}

// Count 获取总元素数 - O(1)
func (ql *Quicklist) Count() int {
	return ql.count
}

// Nodes 获取节点数
func (ql *Quicklist) Nodes() int {
	return ql.nodes
}

// PushHead 在头部插入元素
func (ql *Quicklist) PushHead(value []byte) {
	node := ql.head
	if node == nil || node.lp.Length() >= ql.fill {
		node = &quicklistNode{lp: NewListpack()}
		node.next = ql.head
		if ql.head != nil {
			ql.head.prev = node
		}
		ql.head = node
		if ql.tail == nil {
			ql.tail = node
		}
		ql.nodes++
	}
	node.lp.Prepend(value)
	ql.count++
}

// PushTail 在尾部插入元素
func (ql *Quicklist) PushTail(value []byte) {
	node := ql.tail
	if node == nil || node.lp.Length() >= ql.fill {
		node = &quicklistNode{lp: NewListpack()}
		node.prev = ql.tail
		if ql.tail != nil {
			ql.tail.next = node
		}
		ql.tail = node
		if ql.head == nil {
			ql.head = node
		}
		ql.nodes++
	}
	node.lp.Append(value)
	ql.count++
}

// PopHead 弹出头部元素，空列表返回 ErrEmptyList
func (ql *Quicklist) PopHead() ([]byte, error) {
	if ql.count == 0 {
		return nil, ErrEmptyList
	}
	node := ql.head
	p := node.lp.First()
	val, err := node.lp.GetBytes(p)
	if err != nil {
		return nil, err
	}
	if _, err := node.lp.Delete(p); err != nil {
		return nil, err
	}
	ql.count--
	if node.lp.Length() == 0 {
		ql.unlink(node)
	}
	return val, nil
}

// PopTail 弹出尾部元素，空列表返回 ErrEmptyList
func (ql *Quicklist) PopTail() ([]byte, error) {
	if ql.count == 0 {
		return nil, ErrEmptyList
	}
	node := ql.tail
	p := node.lp.Last()
	val, err := node.lp.GetBytes(p)
	if err != nil {
		return nil, err
	}
	if _, err := node.lp.Delete(p); err != nil {
		return nil, err
	}
	ql.count--
	if node.lp.Length() == 0 {
		ql.unlink(node)
	}
	return val, nil
}

// unlink 摘除空节点
func (ql *Quicklist) unlink(node *quicklistNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		ql.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		ql.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	ql.nodes--
}

// Index 按下标取元素，负数从尾部计数，越界返回 false
// 先按节点元素数累加跳过整节点，再在目标节点内 seek
func (ql *Quicklist) Index(i int) ([]byte, bool) {
	if i < 0 {
		i = ql.count + i
	}
	if i < 0 || i >= ql.count {
		return nil, false
	}
	node := ql.head
	for node != nil {
		n := node.lp.Length()
		if i < n {
			val, err := node.lp.GetBytes(node.lp.Seek(i))
			if err != nil {
				return nil, false
			}
			return val, true
		}
		i -= n
		node = node.next
	}
	return nil, false
}

// Rotate 尾部元素移到头部，元素数 <= 1 时为空操作
func (ql *Quicklist) Rotate() {
	if ql.count <= 1 {
		return
	}
	val, err := ql.PopTail()
	if err != nil {
		return
	}
	ql.PushHead(val)
}

// Range 返回 [start, stop] 闭区间的惰性迭代器，
// 两个边界独立做负数调整，stop 超出总数时提前结束。
// 迭代器在列表被修改后失效，可通过 Rewind 重新开始。
func (ql *Quicklist) Range(start, stop int) *QuicklistIterator {
	if start < 0 {
		start = ql.count + start
	}
	if stop < 0 {
		stop = ql.count + stop
	}
	if start < 0 {
		start = 0
	}
	if stop >= ql.count {
		stop = ql.count - 1
	}
	return &QuicklistIterator{ql: ql, start: start, stop: stop, cur: start}
}

// QuicklistIterator 范围迭代器
type QuicklistIterator struct {
	ql    *Quicklist
	start int
	stop  int
	cur   int
}

// Next 返回下一个元素，耗尽后返回 false
func (it *QuicklistIterator) Next() ([]byte, bool) {
	if it.cur > it.stop || it.cur >= it.ql.count {
		return nil, false
	}
	val, ok := it.ql.Index(it.cur)
	if !ok {
		return nil, false
	}
	it.cur++
	return val, true
}

// Rewind 回到范围起点，迭代可重复
func (it *QuicklistIterator) Rewind() {
	it.cur = it.start
}
