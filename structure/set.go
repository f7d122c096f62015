package structure

/*
 * ============================================================================
 * Set 数据结构 - Intset + Hashtable
 * ============================================================================
 *
 * 两种编码：
 * 1. OBJ_ENCODING_INTSET: 所有成员都是整数时的紧凑表示
 * 2. OBJ_ENCODING_HT: 出现非整数成员或数量超限后的通用表示
 *
 * 【转换策略】
 * - 新集合从 intset 开始
 * - 添加无法解析为整数的成员 → 立即转换为 hashtable
 * - intset 已达 SetMaxIntsetEntries 上限时再添加整数 → 也转换
 * - 转换发生在触发写入落地之前：先把既有成员全部搬入
 *   hashtable，再执行这次写入
 * - 不会从 hashtable 转换回 intset，即使之后成员变少
 */

// RedisSet Set 对象
type RedisSet struct {
	encoding  SetEncoding
	intset    *Intset
	hashtable map[string]bool
}

// NewSet 创建新的 Set，初始为 intset 编码
func NewSet() *RedisSet {
	return &RedisSet{
		encoding: OBJ_ENCODING_INTSET,
		intset:   NewIntset(),
	}
}

// Encoding 获取当前编码
func (rs *RedisSet) Encoding() SetEncoding {
	return rs.encoding
}

// Add 添加成员，已存在时返回 false
func (rs *RedisSet) Add(member []byte) bool {
	if rs.encoding == OBJ_ENCODING_INTSET {
		return rs.addIntset(member)
	}
	return rs.addHashtable(member)
}

// addIntset 向 intset 添加成员，必要时先转换编码
func (rs *RedisSet) addIntset(member []byte) bool {
	intVal, isInt := parseInt64(member)
	if !isInt {
		rs.convertToHashtable()
		return rs.addHashtable(member)
	}
	if rs.intset.Len() >= SetMaxIntsetEntries && !rs.intset.Contains(intVal) {
		rs.convertToHashtable()
		return rs.addHashtable(member)
	}
	return rs.intset.Add(intVal)
}

// addHashtable 向 hashtable 添加成员
func (rs *RedisSet) addHashtable(member []byte) bool {
	if rs.hashtable == nil {
		rs.hashtable = make(map[string]bool)
	}
	if rs.hashtable[string(member)] {
		return false
	}
	rs.hashtable[string(member)] = true
	return true
}

// Remove 删除成员，不存在时返回 false
func (rs *RedisSet) Remove(member []byte) bool {
	if rs.encoding == OBJ_ENCODING_INTSET {
		intVal, isInt := parseInt64(member)
		if !isInt {
			return false
		}
		return rs.intset.Remove(intVal)
	}
	if _, exists := rs.hashtable[string(member)]; !exists {
		return false
	}
	delete(rs.hashtable, string(member))
	return true
}

// IsMember 判断成员是否存在
func (rs *RedisSet) IsMember(member []byte) bool {
	if rs.encoding == OBJ_ENCODING_INTSET {
		intVal, isInt := parseInt64(member)
		if !isInt {
			return false
		}
		return rs.intset.Contains(intVal)
	}
	return rs.hashtable[string(member)]
}

// Card 获取成员数量
func (rs *RedisSet) Card() int {
	if rs.encoding == OBJ_ENCODING_INTSET {
		return rs.intset.Len()
	}
	return len(rs.hashtable)
}

// Members 获取所有成员；intset 编码时按升序返回
func (rs *RedisSet) Members() [][]byte {
	if rs.encoding == OBJ_ENCODING_INTSET {
		vals := rs.intset.Members()
		out := make([][]byte, 0, len(vals))
		for _, v := range vals {
			out = append(out, formatInt64(v))
		}
		return out
	}
	out := make([][]byte, 0, len(rs.hashtable))
	for m := range rs.hashtable {
		out = append(out, []byte(m))
	}
	return out
}

// convertToHashtable 把所有 intset 成员搬入 hashtable（单向）
func (rs *RedisSet) convertToHashtable() {
	if rs.encoding == OBJ_ENCODING_HT {
		return
	}
	rs.hashtable = make(map[string]bool, rs.intset.Len())
	for _, v := range rs.intset.Members() {
		rs.hashtable[string(formatInt64(v))] = true
	}
	rs.encoding = OBJ_ENCODING_HT
	rs.intset = nil
}
