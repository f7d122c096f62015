package structure

/*
 * ============================================================================
 * 对象编码类型定义
 * ============================================================================
 *
 * 同一种逻辑类型可以有多种底层编码，根据数据规模自动选择：
 * - String: RAW、INT
 * - List:   QUICKLIST（始终）
 * - Set:    INTSET、HT
 * - ZSet:   LISTPACK、SKIPLIST
 * - Hash:   LISTPACK、HT
 *
 * 编码转换是单向的：一旦升级到通用编码（HT / SKIPLIST），
 * 即使之后元素变少也不会转换回紧凑编码。
 */

// Encoding 通用编码类型
type Encoding byte

// 编码类型常量
const (
	OBJ_ENCODING_RAW       Encoding = 0  // 原始字节串
	OBJ_ENCODING_INT       Encoding = 1  // 整数字符串
	OBJ_ENCODING_HT        Encoding = 2  // 哈希表
	OBJ_ENCODING_INTSET    Encoding = 6  // 整数集合
	OBJ_ENCODING_SKIPLIST  Encoding = 7  // 跳表 + dict
	OBJ_ENCODING_QUICKLIST Encoding = 9  // 快速列表
	OBJ_ENCODING_LISTPACK  Encoding = 11 // 列表包
)

// ListEncoding List 编码类型（别名）
type ListEncoding = Encoding

// SetEncoding Set 编码类型（别名）
type SetEncoding = Encoding

// ZSetEncoding ZSet 编码类型（别名）
type ZSetEncoding = Encoding

// HashEncoding Hash 编码类型（别名）
type HashEncoding = Encoding

// String 返回编码的字符串表示
func (e Encoding) String() string {
	switch e {
	case OBJ_ENCODING_RAW:
		return "raw"
	case OBJ_ENCODING_INT:
		return "int"
	case OBJ_ENCODING_HT:
		return "hashtable"
	case OBJ_ENCODING_INTSET:
		return "intset"
	case OBJ_ENCODING_SKIPLIST:
		return "skiplist"
	case OBJ_ENCODING_QUICKLIST:
		return "quicklist"
	case OBJ_ENCODING_LISTPACK:
		return "listpack"
	default:
		return "unknown"
	}
}
