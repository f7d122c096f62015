package storage

import (
	"sync"

	"github.com/moostafaa/NRedis/structure"
)

/*
 * ============================================================================
 * 键空间 (redisDb)
 * ============================================================================
 *
 * 单一扁平键空间：key -> RedisObject 的哈希表。
 * 键在第一次写入时创建，Set 会整体替换旧值（不管类型），
 * Del 显式删除。
 *
 * 【并发模型】
 * 核心是单线程同步修改路径：所有结构都假定同一时刻只有一个
 * 逻辑调用方在修改。多连接并发由外层调度器串行化，这里的
 * 读写锁就是那把"全局执行锁"——每个命令在锁内完整执行，
 * 核心内部没有挂起点，也不做 I/O。
 *
 * 【编码升级】
 * HSet / SAdd 是带升级策略的写入口：越过阈值的那次写入先触发
 * 底层结构的单向编码转换，转换完成后写入才落地，不存在挂起的
 * 升级。
 */

// RedisDb 键空间
type RedisDb struct {
	keys map[string]*RedisObject
	mu   sync.RWMutex
}

// NewRedisDb 创建新的键空间
func NewRedisDb() *RedisDb {
	return &RedisDb{
		keys: make(map[string]*RedisObject),
	}
}

// Set 设置键值，无条件替换旧值（不管旧值类型）
func (db *RedisDb) Set(key string, obj *RedisObject) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.keys[key] = obj
}

// Get 获取键对应的对象
func (db *RedisDb) Get(key string) (*RedisObject, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	obj, exists := db.keys[key]
	if !exists {
		return nil, ErrKeyNotFound
	}
	return obj, nil
}

// Del 删除键，返回是否删除了
func (db *RedisDb) Del(key string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.keys[key]; !exists {
		return false
	}
	delete(db.keys, key)
	return true
}

// Exists 判断键是否存在
func (db *RedisDb) Exists(key string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, exists := db.keys[key]
	return exists
}

// Type 获取键的逻辑类型
func (db *RedisDb) Type(key string) (string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	obj, exists := db.keys[key]
	if !exists {
		return "", ErrKeyNotFound
	}
	return obj.TypeString(), nil
}

// Keys 获取所有键
func (db *RedisDb) Keys() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	keys := make([]string, 0, len(db.keys))
	for key := range db.keys {
		keys = append(keys, key)
	}
	return keys
}

// DBSize 获取键数量
func (db *RedisDb) DBSize() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.keys)
}

// FlushDB 清空键空间
func (db *RedisDb) FlushDB() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.keys = make(map[string]*RedisObject)
}

// HSet 设置哈希字段
// 键不存在时创建 Hash 对象；类型不符返回 ErrWrongType。
// 越过 listpack 阈值时底层先升级为 dict，这次写入再落地。
func (db *RedisDb) HSet(key string, field, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	obj, exists := db.keys[key]
	if !exists {
		obj = NewHashObject()
		db.keys[key] = obj
	}
	h, err := obj.GetHash()
	if err != nil {
		return err
	}
	return h.Set(field, value)
}

// SAdd 添加集合成员
// 键不存在时创建 Set 对象；类型不符返回 ErrWrongType。
// 非整数成员或 intset 到达上限时先升级为 hashtable。
func (db *RedisDb) SAdd(key string, member []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	obj, exists := db.keys[key]
	if !exists {
		obj = NewSetObject()
		db.keys[key] = obj
	}
	s, err := obj.GetSet()
	if err != nil {
		return err
	}
	s.Add(member)
	return nil
}

// GetOrCreateList 获取列表结构，键不存在时创建
// 取到后列表的全部操作直接走 RedisList 的契约
func (db *RedisDb) GetOrCreateList(key string) (*structure.RedisList, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	obj, exists := db.keys[key]
	if !exists {
		obj = NewListObject()
		db.keys[key] = obj
	}
	return obj.GetList()
}

// GetOrCreateZSet 获取有序集合结构，键不存在时创建
func (db *RedisDb) GetOrCreateZSet(key string) (*structure.RedisZSet, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	obj, exists := db.keys[key]
	if !exists {
		obj = NewZSetObject()
		db.keys[key] = obj
	}
	return obj.GetZSet()
}
