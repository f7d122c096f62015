package structure

import (
	"bytes"
	"math/rand"
	"time"
)

/*
 * ============================================================================
 * SkipList - 带跨度的跳表
 * ============================================================================
 *
 * 多层有序链表，排序键是 (score, member)：先按 score 升序，
 * score 相同时按 member 的字节序升序。这个全序是所有遍历和
 * 排名计算的基础。
 *
 * 每层前向指针带一个 span（跨度）：该指针跳过的节点数。
 * 沿途累加 span 就能在 O(log n) 内回答两个排名问题：
 * - Rank(member, score): 成员的排名（1 起，0 表示不存在）
 * - ByRank(rank): 指定排名处的节点
 *
 * 底层（level 0）另有后向指针用于反向遍历，只做导航，
 * 所有权始终沿前向方向。
 *
 * 【层数随机化】
 * 新节点层数按几何分布生成（晋升概率 p=0.25，上限 32 层）。
 * 这是概率性的平衡手段，不是不变式：跳表形状每次运行都可能不同，
 * 但全序和 span 的正确性必须始终成立。随机源按实例注入，
 * 测试可以固定种子得到确定的层数序列。
 */

const (
	SKIPLIST_MAXLEVEL = 32   // 最大层数
	SKIPLIST_P        = 0.25 // 晋升概率
)

// SkipListNode 跳表节点
type SkipListNode struct {
	member   []byte
	score    float64
	backward *SkipListNode   // 后向指针（仅 level 0，用于反向遍历）
	level    []SkipListLevel // 前向指针数组
}

// Member 获取成员
func (n *SkipListNode) Member() []byte {
	return n.member
}

// Score 获取分值
func (n *SkipListNode) Score() float64 {
	return n.score
}

// SkipListLevel 跳表层
type SkipListLevel struct {
	forward *SkipListNode // 前向指针
	span    uint32        // 跨度：该指针跳过的节点数
}

// SkipList 跳表
type SkipList struct {
	header *SkipListNode // 头哨兵节点
	tail   *SkipListNode // 尾节点
	length uint32        // 节点数量
	level  int           // 当前最大层数
	rng    *rand.Rand    // 实例私有随机源
}

// NewSkipList 创建新的跳表
func NewSkipList() *SkipList {
	return NewSkipListSeeded(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSkipListSeeded 用指定随机源创建跳表，便于测试固定层数
func NewSkipListSeeded(rng *rand.Rand) *SkipList {
	return &SkipList{
		level: 1,
		header: &SkipListNode{
			level: make([]SkipListLevel, SKIPLIST_MAXLEVEL),
		},
		rng: rng,
	}
}

// Len 获取节点数量
func (sl *SkipList) Len() uint32 {
	return sl.length
}

// Tail 获取尾节点
func (sl *SkipList) Tail() *SkipListNode {
	return sl.tail
}

// First 获取首节点（最小 (score, member)）
func (sl *SkipList) First() *SkipListNode {
	return sl.header.level[0].forward
}

// randomLevel 按几何分布生成层数
func (sl *SkipList) randomLevel() int {
	level := 1
	for sl.rng.Float64() < SKIPLIST_P && level < SKIPLIST_MAXLEVEL {
		level++
	}
	return level
}

// keyLess 判断节点 (s, m) 是否严格小于目标 (score, member)
func keyLess(s float64, m []byte, score float64, member []byte) bool {
	if s != score {
		return s < score
	}
	return bytes.Compare(m, member) < 0
}

// Insert 插入节点，重复的 (score, member) 拒绝并返回 false
// 改分值需要调用方先 Delete 再 Insert
func (sl *SkipList) Insert(member []byte, score float64) bool {
	update := make([]*SkipListNode, SKIPLIST_MAXLEVEL)
	rank := make([]uint32, SKIPLIST_MAXLEVEL)

	// 自顶向下查找插入位置，沿途累加 span 得到各层排名
	x := sl.header
	for i := sl.level - 1; i >= 0; i-- {
		if i == sl.level-1 {
			rank[i] = 0
		} else {
			rank[i] = rank[i+1]
		}
		for x.level[i].forward != nil &&
			keyLess(x.level[i].forward.score, x.level[i].forward.member, score, member) {
			rank[i] += x.level[i].span
			x = x.level[i].forward
		}
		update[i] = x
	}

	// 精确重复：不插入
	next := update[0].level[0].forward
	if next != nil && next.score == score && bytes.Equal(next.member, member) {
		return false
	}

	level := sl.randomLevel()
	if level > sl.level {
		for i := sl.level; i < level; i++ {
			rank[i] = 0
			update[i] = sl.header
			update[i].level[i].span = sl.length
		}
		sl.level = level
	}

	x = &SkipListNode{
		member: member,
		score:  score,
		level:  make([]SkipListLevel, level),
	}

	// 逐层接入并重算跨度
	for i := 0; i < level; i++ {
		x.level[i].forward = update[i].level[i].forward
		update[i].level[i].forward = x

		x.level[i].span = update[i].level[i].span - (rank[0] - rank[i])
		update[i].level[i].span = (rank[0] - rank[i]) + 1
	}

	// 未接入的更高层只是多跨过一个节点
	for i := level; i < sl.level; i++ {
		update[i].level[i].span++
	}

	if update[0] == sl.header {
		x.backward = nil
	} else {
		x.backward = update[0]
	}
	if x.level[0].forward != nil {
		x.level[0].forward.backward = x
	} else {
		sl.tail = x
	}

	sl.length++
	return true
}

// Delete 按 (member, score) 精确删除节点，返回是否删除
func (sl *SkipList) Delete(member []byte, score float64) bool {
	update := make([]*SkipListNode, SKIPLIST_MAXLEVEL)

	x := sl.header
	for i := sl.level - 1; i >= 0; i-- {
		for x.level[i].forward != nil &&
			keyLess(x.level[i].forward.score, x.level[i].forward.member, score, member) {
			x = x.level[i].forward
		}
		update[i] = x
	}

	x = x.level[0].forward
	if x == nil || x.score != score || !bytes.Equal(x.member, member) {
		return false
	}

	// 逐层摘除，被删节点的跨度并入前驱
	for i := 0; i < sl.level; i++ {
		if update[i].level[i].forward == x {
			update[i].level[i].span += x.level[i].span - 1
			update[i].level[i].forward = x.level[i].forward
		} else {
			update[i].level[i].span--
		}
	}

	if x.level[0].forward != nil {
		x.level[0].forward.backward = x.backward
	} else {
		sl.tail = x.backward
	}

	// 顶部空层收缩
	for sl.level > 1 && sl.header.level[sl.level-1].forward == nil {
		sl.level--
	}

	sl.length--
	return true
}

// Rank 获取成员的排名，1 起计数，0 表示不存在
// 自顶向下累加 span，落点成员匹配才算找到
func (sl *SkipList) Rank(member []byte, score float64) uint32 {
	rank := uint32(0)
	x := sl.header
	for i := sl.level - 1; i >= 0; i-- {
		for x.level[i].forward != nil &&
			(keyLess(x.level[i].forward.score, x.level[i].forward.member, score, member) ||
				(x.level[i].forward.score == score &&
					bytes.Equal(x.level[i].forward.member, member))) {
			rank += x.level[i].span
			x = x.level[i].forward
		}
		if x != sl.header && x.score == score && bytes.Equal(x.member, member) {
			return rank
		}
	}
	return 0
}

// ByRank 获取指定排名处的节点（1 起计数），越界返回 nil
func (sl *SkipList) ByRank(rank uint32) *SkipListNode {
	if rank == 0 || rank > sl.length {
		return nil
	}
	traversed := uint32(0)
	x := sl.header
	for i := sl.level - 1; i >= 0; i-- {
		for x.level[i].forward != nil && traversed+x.level[i].span <= rank {
			traversed += x.level[i].span
			x = x.level[i].forward
		}
		if traversed == rank && x != sl.header {
			return x
		}
	}
	return nil
}
