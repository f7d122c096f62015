package structure

import (
	"bytes"
	"strconv"
)

/*
 * ============================================================================
 * Sorted Set (ZSet) 数据结构 - Listpack + (SkipList + Dict)
 * ============================================================================
 *
 * 两种编码：
 * 1. OBJ_ENCODING_LISTPACK: 小集合，member 和 score 交替平铺，
 *    按 (score, member) 升序排列
 * 2. OBJ_ENCODING_SKIPLIST: 大集合，跳表按序 + dict 提供
 *    O(1) 的 member -> score 查询（空间换时间）
 *
 * 【转换策略】
 * - 新 ZSet 从 listpack 开始
 * - 成员对数达到 ZSetMaxListpackEntries，或 member 超过
 *   ZSetMaxListpackValue 字节 → 转换为 skiplist+dict
 * - 转换把既有成员逐对重新插入跳表和 dict，然后这次写入落地
 * - 单向转换，不会回到 listpack
 *
 * member 不允许重复（重复 Add 按更新分值处理）；score 可以重复，
 * 此时按 member 字节序决定次序。
 */

// ZSetEntry 有序集合条目
type ZSetEntry struct {
	member []byte
	score  float64
}

// Member 获取 member
func (e *ZSetEntry) Member() []byte {
	return e.member
}

// Score 获取 score
func (e *ZSetEntry) Score() float64 {
	return e.score
}

// RedisZSet Sorted Set 对象
type RedisZSet struct {
	encoding ZSetEncoding
	listpack *Listpack
	skiplist *SkipList
	dict     map[string]float64 // member -> score
}

// NewZSet 创建新的 ZSet，初始为 listpack 编码
func NewZSet() *RedisZSet {
	return &RedisZSet{
		encoding: OBJ_ENCODING_LISTPACK,
		listpack: NewListpack(),
	}
}

// Encoding 获取当前编码
func (rz *RedisZSet) Encoding() ZSetEncoding {
	return rz.encoding
}

// Card 获取成员数量
func (rz *RedisZSet) Card() int {
	if rz.encoding == OBJ_ENCODING_LISTPACK {
		return rz.listpack.Length() / 2
	}
	return int(rz.skiplist.Len())
}

// Add 添加成员或更新已有成员的分值
func (rz *RedisZSet) Add(member []byte, score float64) error {
	if rz.encoding == OBJ_ENCODING_LISTPACK {
		return rz.addListpack(member, score)
	}
	return rz.addSkiplist(member, score)
}

// addListpack 向 listpack 添加成员，必要时先转换编码
func (rz *RedisZSet) addListpack(member []byte, score float64) error {
	if rz.listpack.Length()/2 >= ZSetMaxListpackEntries ||
		len(member) > ZSetMaxListpackValue {
		rz.convertToSkiplist()
		return rz.addSkiplist(member, score)
	}

	entries := rz.listpackEntries()

	// member 已存在：分值相同为空操作，否则移除后按新分值重插
	for i, e := range entries {
		if bytes.Equal(e.member, member) {
			if e.score == score {
				return nil
			}
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}

	// 二分定位 (score, member) 的有序插入点
	left, right := 0, len(entries)
	for left < right {
		mid := (left + right) / 2
		if keyLess(entries[mid].score, entries[mid].member, score, member) {
			left = mid + 1
		} else {
			right = mid
		}
	}
	entries = append(entries, ZSetEntry{})
	copy(entries[left+1:], entries[left:])
	entries[left] = ZSetEntry{member: member, score: score}

	rz.rebuildListpack(entries)
	return nil
}

// addSkiplist 向 skiplist+dict 添加成员
func (rz *RedisZSet) addSkiplist(member []byte, score float64) error {
	oldScore, exists := rz.dict[string(member)]
	if exists {
		if oldScore == score {
			return nil
		}
		// 改分值必须先删后插，跳表内没有原地移动
		rz.skiplist.Delete(member, oldScore)
	}
	rz.skiplist.Insert(member, score)
	rz.dict[string(member)] = score
	return nil
}

// Remove 删除成员，不存在时返回 ErrMemberNotFound
func (rz *RedisZSet) Remove(member []byte) error {
	if rz.encoding == OBJ_ENCODING_LISTPACK {
		entries := rz.listpackEntries()
		for i, e := range entries {
			if bytes.Equal(e.member, member) {
				entries = append(entries[:i], entries[i+1:]...)
				rz.rebuildListpack(entries)
				return nil
			}
		}
		return ErrMemberNotFound
	}

	score, exists := rz.dict[string(member)]
	if !exists {
		return ErrMemberNotFound
	}
	rz.skiplist.Delete(member, score)
	delete(rz.dict, string(member))
	return nil
}

// Score 获取成员的分值
func (rz *RedisZSet) Score(member []byte) (float64, bool) {
	if rz.encoding == OBJ_ENCODING_LISTPACK {
		for _, e := range rz.listpackEntries() {
			if bytes.Equal(e.member, member) {
				return e.score, true
			}
		}
		return 0, false
	}
	score, exists := rz.dict[string(member)]
	return score, exists
}

// Rank 获取成员的排名（0 起计数），reverse 时从高分往低分数
func (rz *RedisZSet) Rank(member []byte, reverse bool) (int, bool) {
	if rz.encoding == OBJ_ENCODING_LISTPACK {
		for i, e := range rz.listpackEntries() {
			if bytes.Equal(e.member, member) {
				if reverse {
					return rz.Card() - 1 - i, true
				}
				return i, true
			}
		}
		return 0, false
	}

	score, exists := rz.dict[string(member)]
	if !exists {
		return 0, false
	}
	r := rz.skiplist.Rank(member, score) // 1 起，0 表示不存在
	if r == 0 {
		return 0, false
	}
	if reverse {
		return int(rz.skiplist.Len()) - int(r), true
	}
	return int(r) - 1, true
}

// ByRank 获取指定排名（0 起计数）处的成员
func (rz *RedisZSet) ByRank(rank int) ([]byte, float64, bool) {
	if rank < 0 || rank >= rz.Card() {
		return nil, 0, false
	}
	if rz.encoding == OBJ_ENCODING_LISTPACK {
		e := rz.listpackEntries()[rank]
		return e.member, e.score, true
	}
	node := rz.skiplist.ByRank(uint32(rank) + 1)
	if node == nil {
		return nil, 0, false
	}
	return node.Member(), node.Score(), true
}

// Range 获取 [start, end] 闭区间的成员，负数下标从尾部计数
func (rz *RedisZSet) Range(start, end int, reverse bool) []ZSetEntry {
	length := rz.Card()
	if start < 0 {
		start = length + start
	}
	if end < 0 {
		end = length + end
	}
	if start < 0 {
		start = 0
	}
	if end >= length {
		end = length - 1
	}
	if start > end {
		return []ZSetEntry{}
	}

	result := make([]ZSetEntry, 0, end-start+1)

	if rz.encoding == OBJ_ENCODING_LISTPACK {
		entries := rz.listpackEntries()
		if reverse {
			for i := end; i >= start; i-- {
				result = append(result, entries[i])
			}
		} else {
			result = append(result, entries[start:end+1]...)
		}
		return result
	}

	if reverse {
		// 沿后向指针从尾部遍历
		node := rz.skiplist.Tail()
		idx := length - 1
		for node != nil && idx >= start {
			if idx <= end {
				result = append(result, ZSetEntry{member: node.member, score: node.score})
			}
			node = node.backward
			idx--
		}
	} else {
		node := rz.skiplist.First()
		idx := 0
		for node != nil && idx <= end {
			if idx >= start {
				result = append(result, ZSetEntry{member: node.member, score: node.score})
			}
			node = node.level[0].forward
			idx++
		}
	}
	return result
}

// listpackEntries 顺序读出所有 (member, score) 对
func (rz *RedisZSet) listpackEntries() []ZSetEntry {
	out := make([]ZSetEntry, 0, rz.listpack.Length()/2)
	p := rz.listpack.First()
	for p != NoPos {
		mval, err := rz.listpack.GetBytes(p)
		if err != nil {
			break
		}
		sp, err := rz.listpack.Next(p)
		if err != nil || sp == NoPos {
			break
		}
		score, err := rz.scoreAt(sp)
		if err != nil {
			break
		}
		out = append(out, ZSetEntry{member: mval, score: score})
		p, err = rz.listpack.Next(sp)
		if err != nil {
			break
		}
	}
	return out
}

// scoreAt 解码 score 条目；整数编码直接转换，其余按十进制解析
func (rz *RedisZSet) scoreAt(p int) (float64, error) {
	sval, ival, isInt, err := rz.listpack.Get(p)
	if err != nil {
		return 0, err
	}
	if isInt {
		return float64(ival), nil
	}
	return strconv.ParseFloat(string(sval), 64)
}

// rebuildListpack 按序重建 listpack
func (rz *RedisZSet) rebuildListpack(entries []ZSetEntry) {
	lp := NewListpack()
	for _, e := range entries {
		lp.Append(e.member)
		lp.Append(scoreToBytes(e.score))
	}
	rz.listpack = lp
}

// scoreToBytes score 的存储表示；整数值会被 listpack 选为整数编码
func scoreToBytes(score float64) []byte {
	return []byte(strconv.FormatFloat(score, 'f', -1, 64))
}

// convertToSkiplist 把所有成员重插入 skiplist+dict（单向）
func (rz *RedisZSet) convertToSkiplist() {
	if rz.encoding == OBJ_ENCODING_SKIPLIST {
		return
	}
	rz.skiplist = NewSkipList()
	rz.dict = make(map[string]float64)
	for _, e := range rz.listpackEntries() {
		rz.skiplist.Insert(e.member, e.score)
		rz.dict[string(e.member)] = e.score
	}
	rz.encoding = OBJ_ENCODING_SKIPLIST
	rz.listpack = nil
}
