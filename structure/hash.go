package structure

import "bytes"

/*
 * ============================================================================
 * Hash 数据结构 - Listpack + Dict
 * ============================================================================
 *
 * 两种编码：
 * 1. OBJ_ENCODING_LISTPACK: field 和 value 交替平铺在一个 listpack 里
 *    [field1][value1][field2][value2]...
 * 2. OBJ_ENCODING_HT: 通用哈希表 field -> value
 *
 * 【转换策略】
 * - 新 Hash 从 listpack 开始
 * - listpack 元素总数（field+value）达到 HashMaxListpackEntries，
 *   或 field/value 超过 HashMaxListpackValue 字节 → 转换为 dict
 * - 转换在触发写入落地之前完成：先把既有 field/value 全部搬入
 *   dict，这次写入再落到 dict 上
 * - 单向转换，不会回到 listpack
 */

// HashEntry 哈希条目
type HashEntry struct {
	field []byte
	value []byte
}

// Field 获取 field
func (e *HashEntry) Field() []byte {
	return e.field
}

// Value 获取 value
func (e *HashEntry) Value() []byte {
	return e.value
}

// RedisHash Hash 对象
type RedisHash struct {
	encoding  HashEncoding
	listpack  *Listpack
	hashtable map[string][]byte
}

// NewHash 创建新的 Hash，初始为 listpack 编码
func NewHash() *RedisHash {
	return &RedisHash{
		encoding: OBJ_ENCODING_LISTPACK,
		listpack: NewListpack(),
	}
}

// Encoding 获取当前编码
func (rh *RedisHash) Encoding() HashEncoding {
	return rh.encoding
}

// Len 获取 field 数量
func (rh *RedisHash) Len() int {
	if rh.encoding == OBJ_ENCODING_LISTPACK {
		return rh.listpack.Length() / 2
	}
	return len(rh.hashtable)
}

// Set 设置字段值（插入或覆盖）
func (rh *RedisHash) Set(field, value []byte) error {
	if rh.encoding == OBJ_ENCODING_LISTPACK {
		return rh.setListpack(field, value)
	}
	return rh.setHashtable(field, value)
}

// setListpack 在 listpack 中设置字段，必要时先转换编码
func (rh *RedisHash) setListpack(field, value []byte) error {
	if rh.listpack.Length() >= HashMaxListpackEntries ||
		len(field) > HashMaxListpackValue ||
		len(value) > HashMaxListpackValue {
		rh.convertToHashtable()
		return rh.setHashtable(field, value)
	}

	fp := rh.findField(field)
	if fp == NoPos {
		rh.listpack.Append(field)
		rh.listpack.Append(value)
		return nil
	}

	// 覆盖：删掉旧 value 再插回新值
	// field 条目在 value 之前，删除不影响它的偏移量
	vp, err := rh.listpack.Next(fp)
	if err != nil {
		return err
	}
	if _, err := rh.listpack.Delete(vp); err != nil {
		return err
	}
	_, err = rh.listpack.Insert(value, fp, true)
	return err
}

// setHashtable 在 dict 中设置字段
func (rh *RedisHash) setHashtable(field, value []byte) error {
	if rh.hashtable == nil {
		rh.hashtable = make(map[string][]byte)
	}
	v := make([]byte, len(value))
	copy(v, value)
	rh.hashtable[string(field)] = v
	return nil
}

// Get 获取字段值
func (rh *RedisHash) Get(field []byte) ([]byte, bool) {
	if rh.encoding == OBJ_ENCODING_LISTPACK {
		fp := rh.findField(field)
		if fp == NoPos {
			return nil, false
		}
		vp, err := rh.listpack.Next(fp)
		if err != nil || vp == NoPos {
			return nil, false
		}
		val, err := rh.listpack.GetBytes(vp)
		if err != nil {
			return nil, false
		}
		return val, true
	}
	v, ok := rh.hashtable[string(field)]
	return v, ok
}

// Exists 判断字段是否存在
func (rh *RedisHash) Exists(field []byte) bool {
	_, ok := rh.Get(field)
	return ok
}

// Del 删除字段，不存在时返回 false
func (rh *RedisHash) Del(field []byte) bool {
	if rh.encoding == OBJ_ENCODING_LISTPACK {
		fp := rh.findField(field)
		if fp == NoPos {
			return false
		}
		// 先删 field，后继 value 落到同一偏移量上
		if _, err := rh.listpack.Delete(fp); err != nil {
			return false
		}
		if _, err := rh.listpack.Delete(fp); err != nil {
			return false
		}
		return true
	}
	if _, exists := rh.hashtable[string(field)]; !exists {
		return false
	}
	delete(rh.hashtable, string(field))
	return true
}

// GetAll 获取所有 field/value 对
func (rh *RedisHash) GetAll() []HashEntry {
	if rh.encoding == OBJ_ENCODING_LISTPACK {
		return rh.listpackEntries()
	}
	out := make([]HashEntry, 0, len(rh.hashtable))
	for f, v := range rh.hashtable {
		out = append(out, HashEntry{field: []byte(f), value: v})
	}
	return out
}

// findField 在 listpack 中查找字段，返回 field 条目的位置
func (rh *RedisHash) findField(field []byte) int {
	p := rh.listpack.First()
	for p != NoPos {
		fval, err := rh.listpack.GetBytes(p)
		if err != nil {
			return NoPos
		}
		vp, err := rh.listpack.Next(p)
		if err != nil || vp == NoPos {
			return NoPos
		}
		if bytes.Equal(fval, field) {
			return p
		}
		p, err = rh.listpack.Next(vp)
		if err != nil {
			return NoPos
		}
	}
	return NoPos
}

// listpackEntries 顺序读出 listpack 中的所有 field/value 对
func (rh *RedisHash) listpackEntries() []HashEntry {
	out := make([]HashEntry, 0, rh.listpack.Length()/2)
	p := rh.listpack.First()
	for p != NoPos {
		fval, err := rh.listpack.GetBytes(p)
		if err != nil {
			break
		}
		vp, err := rh.listpack.Next(p)
		if err != nil || vp == NoPos {
			break
		}
		vval, err := rh.listpack.GetBytes(vp)
		if err != nil {
			break
		}
		out = append(out, HashEntry{field: fval, value: vval})
		p, err = rh.listpack.Next(vp)
		if err != nil {
			break
		}
	}
	return out
}

// convertToHashtable 把所有 field/value 对搬入 dict（单向）
func (rh *RedisHash) convertToHashtable() {
	if rh.encoding == OBJ_ENCODING_HT {
		return
	}
	entries := rh.listpackEntries()
	rh.hashtable = make(map[string][]byte, len(entries))
	for _, e := range entries {
		rh.hashtable[string(e.field)] = e.value
	}
	rh.encoding = OBJ_ENCODING_HT
	rh.listpack = nil
}
