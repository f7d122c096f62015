package storage

import "github.com/moostafaa/NRedis/structure"

/*
 * ============================================================================
 * 对象系统 (robj)
 * ============================================================================
 *
 * 所有值统一用带类型标签的对象表示，每个对象包含：
 * - Type: 逻辑类型（STRING、LIST、SET、ZSET、HASH）
 * - 底层结构实例（对象独占所有权）
 *
 * 编码不单独存字段：集合类对象的编码随底层结构的转换而变化，
 * Encoding() 直接向结构询问当前编码，避免标签与实际编码脱节。
 * 字符串对象的编码在创建时分类一次（内容可严格解析为 int64
 * 即为 INT 编码），之后不变。
 *
 * 类型与编码的兼容表：
 * - String: RAW、INT
 * - List:   QUICKLIST
 * - Set:    INTSET、HT
 * - ZSet:   LISTPACK、SKIPLIST
 * - Hash:   LISTPACK、HT
 *
 * 访问操作的逻辑类型与对象标签不符时返回 ErrWrongType。
 */

// ObjectType 对象逻辑类型
type ObjectType byte

const (
	OBJ_STRING ObjectType = 0 // 字符串对象
	OBJ_LIST   ObjectType = 1 // 列表对象
	OBJ_SET    ObjectType = 2 // 集合对象
	OBJ_ZSET   ObjectType = 3 // 有序集合对象
	OBJ_HASH   ObjectType = 4 // 哈希对象
)

// RedisObject 带类型标签的值对象
type RedisObject struct {
	Type   ObjectType
	strEnc structure.Encoding // 仅字符串对象使用，创建时分类一次
	ptr    interface{}
}

// NewStringObject 创建字符串对象
// 内容整体能严格解析为 int64 时归类为 INT 编码，否则 RAW
func NewStringObject(value []byte) *RedisObject {
	enc := structure.OBJ_ENCODING_RAW
	if structure.IsInteger(value) {
		enc = structure.OBJ_ENCODING_INT
	}
	return &RedisObject{
		Type:   OBJ_STRING,
		strEnc: enc,
		ptr:    structure.NewByteStringFromBytes(value),
	}
}

// NewListObject 创建列表对象
func NewListObject() *RedisObject {
	return &RedisObject{Type: OBJ_LIST, ptr: structure.NewList()}
}

// NewSetObject 创建集合对象
func NewSetObject() *RedisObject {
	return &RedisObject{Type: OBJ_SET, ptr: structure.NewSet()}
}

// NewZSetObject 创建有序集合对象
func NewZSetObject() *RedisObject {
	return &RedisObject{Type: OBJ_ZSET, ptr: structure.NewZSet()}
}

// NewHashObject 创建哈希对象
func NewHashObject() *RedisObject {
	return &RedisObject{Type: OBJ_HASH, ptr: structure.NewHash()}
}

// Encoding 获取对象当前编码（向底层结构询问，不会脱节）
func (obj *RedisObject) Encoding() structure.Encoding {
	switch obj.Type {
	case OBJ_STRING:
		return obj.strEnc
	case OBJ_LIST:
		return obj.ptr.(*structure.RedisList).Encoding()
	case OBJ_SET:
		return obj.ptr.(*structure.RedisSet).Encoding()
	case OBJ_ZSET:
		return obj.ptr.(*structure.RedisZSet).Encoding()
	case OBJ_HASH:
		return obj.ptr.(*structure.RedisHash).Encoding()
	}
	return structure.OBJ_ENCODING_RAW
}

// GetStringValue 获取字符串内容
func (obj *RedisObject) GetStringValue() ([]byte, error) {
	bs, err := obj.GetByteString()
	if err != nil {
		return nil, err
	}
	return bs.Bytes(), nil
}

// GetByteString 获取字符串对象的底层 ByteString
func (obj *RedisObject) GetByteString() (*structure.ByteString, error) {
	if obj.Type != OBJ_STRING {
		return nil, ErrWrongType
	}
	return obj.ptr.(*structure.ByteString), nil
}

// GetList 获取列表结构
func (obj *RedisObject) GetList() (*structure.RedisList, error) {
	if obj.Type != OBJ_LIST {
		return nil, ErrWrongType
	}
	return obj.ptr.(*structure.RedisList), nil
}

// GetSet 获取集合结构
func (obj *RedisObject) GetSet() (*structure.RedisSet, error) {
	if obj.Type != OBJ_SET {
		return nil, ErrWrongType
	}
	return obj.ptr.(*structure.RedisSet), nil
}

// GetZSet 获取有序集合结构
func (obj *RedisObject) GetZSet() (*structure.RedisZSet, error) {
	if obj.Type != OBJ_ZSET {
		return nil, ErrWrongType
	}
	return obj.ptr.(*structure.RedisZSet), nil
}

// GetHash 获取哈希结构
func (obj *RedisObject) GetHash() (*structure.RedisHash, error) {
	if obj.Type != OBJ_HASH {
		return nil, ErrWrongType
	}
	return obj.ptr.(*structure.RedisHash), nil
}

// TypeString 返回对象类型的字符串表示
func (obj *RedisObject) TypeString() string {
	switch obj.Type {
	case OBJ_STRING:
		return "string"
	case OBJ_LIST:
		return "list"
	case OBJ_SET:
		return "set"
	case OBJ_ZSET:
		return "zset"
	case OBJ_HASH:
		return "hash"
	default:
		return "unknown"
	}
}

// EncodingString 返回编码方式的字符串表示
func (obj *RedisObject) EncodingString() string {
	return obj.Encoding().String()
}
