package storage

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moostafaa/NRedis/structure"
)

func TestDbSetGetDel(t *testing.T) {
	db := NewRedisDb()

	db.Set("greeting", NewStringObject([]byte("hello")))
	assert.True(t, db.Exists("greeting"))
	assert.Equal(t, 1, db.DBSize())

	obj, err := db.Get("greeting")
	require.NoError(t, err)
	val, err := obj.GetStringValue()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), val)

	_, err = db.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.True(t, db.Del("greeting"))
	assert.False(t, db.Del("greeting"))
	assert.False(t, db.Exists("greeting"))
}

func TestDbSetReplacesWholesale(t *testing.T) {
	db := NewRedisDb()

	require.NoError(t, db.HSet("k", []byte("f"), []byte("v")))

	// Set 整体替换，旧类型和编码历史全部丢弃
	db.Set("k", NewStringObject([]byte("now a string")))
	obj, err := db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "string", obj.TypeString())

	val, err := obj.GetStringValue()
	require.NoError(t, err)
	assert.Equal(t, []byte("now a string"), val)
}

func TestDbStringEncoding(t *testing.T) {
	db := NewRedisDb()

	db.Set("n", NewStringObject([]byte("12345")))
	obj, err := db.Get("n")
	require.NoError(t, err)
	assert.Equal(t, structure.OBJ_ENCODING_INT, obj.Encoding())
	assert.Equal(t, "int", obj.EncodingString())

	db.Set("s", NewStringObject([]byte("hello")))
	obj, err = db.Get("s")
	require.NoError(t, err)
	assert.Equal(t, structure.OBJ_ENCODING_RAW, obj.Encoding())

	// "007" 不是规范整数形式
	db.Set("z", NewStringObject([]byte("007")))
	obj, err = db.Get("z")
	require.NoError(t, err)
	assert.Equal(t, structure.OBJ_ENCODING_RAW, obj.Encoding())
}

func TestDbWrongType(t *testing.T) {
	db := NewRedisDb()
	db.Set("str", NewStringObject([]byte("x")))

	assert.ErrorIs(t, db.HSet("str", []byte("f"), []byte("v")), ErrWrongType)
	assert.ErrorIs(t, db.SAdd("str", []byte("m")), ErrWrongType)

	_, err := db.GetOrCreateList("str")
	assert.ErrorIs(t, err, ErrWrongType)
	_, err = db.GetOrCreateZSet("str")
	assert.ErrorIs(t, err, ErrWrongType)

	obj, err := db.Get("str")
	require.NoError(t, err)
	_, err = obj.GetHash()
	assert.ErrorIs(t, err, ErrWrongType)
	_, err = obj.GetList()
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestDbHSetAutoCreate(t *testing.T) {
	db := NewRedisDb()

	require.NoError(t, db.HSet("h", []byte("f1"), []byte("v1")))
	require.NoError(t, db.HSet("h", []byte("f2"), []byte("v2")))

	obj, err := db.Get("h")
	require.NoError(t, err)
	assert.Equal(t, "hash", obj.TypeString())
	assert.Equal(t, "listpack", obj.EncodingString())

	hash, err := obj.GetHash()
	require.NoError(t, err)
	assert.Equal(t, 2, hash.Len())
}

func TestDbHashPromotionByLongValue(t *testing.T) {
	db := NewRedisDb()
	require.NoError(t, db.HSet("h", []byte("f1"), []byte("v1")))

	long := bytes.Repeat([]byte("x"), 100)
	require.NoError(t, db.HSet("h", []byte("f2"), long))

	obj, err := db.Get("h")
	require.NoError(t, err)
	// 观察到的编码跟随底层结构变化
	assert.Equal(t, "hashtable", obj.EncodingString())

	hash, err := obj.GetHash()
	require.NoError(t, err)
	val, ok := hash.Get([]byte("f1"))
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), val)
	val, ok = hash.Get([]byte("f2"))
	require.True(t, ok)
	assert.Equal(t, long, val)
}

func TestDbSetPromotionByCapacity(t *testing.T) {
	db := NewRedisDb()

	// 默认上限 512：前 512 个整数保持 intset
	for i := 0; i < 512; i++ {
		require.NoError(t, db.SAdd("s", []byte(fmt.Sprintf("%d", i))))
	}
	obj, err := db.Get("s")
	require.NoError(t, err)
	assert.Equal(t, "intset", obj.EncodingString())

	// 第 513 个触发转换
	require.NoError(t, db.SAdd("s", []byte("512")))

	obj, err = db.Get("s")
	require.NoError(t, err)
	assert.Equal(t, "hashtable", obj.EncodingString())

	set, err := obj.GetSet()
	require.NoError(t, err)
	assert.Equal(t, 513, set.Card())
}

func TestDbSetPromotionByNonInteger(t *testing.T) {
	db := NewRedisDb()
	require.NoError(t, db.SAdd("s", []byte("1")))
	require.NoError(t, db.SAdd("s", []byte("two")))

	obj, err := db.Get("s")
	require.NoError(t, err)
	assert.Equal(t, "hashtable", obj.EncodingString())

	set, err := obj.GetSet()
	require.NoError(t, err)
	assert.True(t, set.IsMember([]byte("1")))
	assert.True(t, set.IsMember([]byte("two")))
}

func TestDbGetOrCreateList(t *testing.T) {
	db := NewRedisDb()

	list, err := db.GetOrCreateList("l")
	require.NoError(t, err)
	list.PushTail([]byte("a"))
	list.PushTail([]byte("b"))

	// 再次获取拿到同一个列表
	list2, err := db.GetOrCreateList("l")
	require.NoError(t, err)
	assert.Equal(t, 2, list2.Len())

	obj, err := db.Get("l")
	require.NoError(t, err)
	assert.Equal(t, "list", obj.TypeString())
	assert.Equal(t, "quicklist", obj.EncodingString())
}

func TestDbGetOrCreateZSet(t *testing.T) {
	db := NewRedisDb()

	zset, err := db.GetOrCreateZSet("z")
	require.NoError(t, err)
	require.NoError(t, zset.Add([]byte("a"), 1.0))

	zset2, err := db.GetOrCreateZSet("z")
	require.NoError(t, err)
	assert.Equal(t, 1, zset2.Card())

	obj, err := db.Get("z")
	require.NoError(t, err)
	assert.Equal(t, "zset", obj.TypeString())
	assert.Equal(t, "listpack", obj.EncodingString())
}

func TestDbTypeKeysFlush(t *testing.T) {
	db := NewRedisDb()
	db.Set("a", NewStringObject([]byte("1")))
	require.NoError(t, db.HSet("b", []byte("f"), []byte("v")))

	typ, err := db.Type("a")
	require.NoError(t, err)
	assert.Equal(t, "string", typ)
	typ, err = db.Type("b")
	require.NoError(t, err)
	assert.Equal(t, "hash", typ)
	_, err = db.Type("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	keys := db.Keys()
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "a")
	assert.Contains(t, keys, "b")

	db.FlushDB()
	assert.Equal(t, 0, db.DBSize())
	assert.Empty(t, db.Keys())
}
