package server

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/moostafaa/NRedis/storage"
	"github.com/moostafaa/NRedis/structure"
)

/*
 * ============================================================================
 * HTTP 命令入口
 * ============================================================================
 *
 * 核心本身不做任何 I/O，这里是围绕键空间的外层调度器：
 * 每个命令在 handler 的互斥锁内同步执行完才返回，多连接并发
 * 被这把锁串行化，满足核心"同一时刻只有一个逻辑调用方"的约定。
 *
 * 错误映射：
 * - 类型不符 (wrong type)  -> 409
 * - 键/成员不存在          -> 404
 * - 参数越界/不合法        -> 400
 */

// Handler 命令处理器，持有键空间和全局执行锁
type Handler struct {
	db *storage.RedisDb
	mu sync.Mutex
}

// NewHandler 创建命令处理器
func NewHandler(db *storage.RedisDb) *Handler {
	return &Handler{db: db}
}

// NewRouter 构建路由
func NewRouter(db *storage.RedisDb) *gin.Engine {
	h := NewHandler(db)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/keys", h.Keys)
	r.GET("/info/:key", h.Info)
	r.DELETE("/key/:key", h.Del)

	r.POST("/string/:key/:value", h.StringSet)
	r.GET("/string/:key", h.StringGet)

	r.POST("/hash/:key/:field/:value", h.HashSet)
	r.GET("/hash/:key/:field", h.HashGet)

	r.POST("/set/:key/:member", h.SetAdd)
	r.GET("/set/:key", h.SetMembers)

	r.POST("/list/:key/head/:value", h.ListPushHead)
	r.POST("/list/:key/tail/:value", h.ListPushTail)
	r.POST("/list/:key/rotate", h.ListRotate)
	r.GET("/list/:key", h.ListRange)

	r.POST("/zset/:key/:member/:score", h.ZSetAdd)
	r.GET("/zset/:key/rank/:member", h.ZSetRank)
	r.GET("/zset/:key/byrank/:rank", h.ZSetByRank)

	return r
}

// Keys 列出所有键
func (h *Handler) Keys(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"keys": h.db.Keys()})
}

// Info 查看键的类型与当前编码
func (h *Handler) Info(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	obj, err := h.db.Get(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"type":     obj.TypeString(),
		"encoding": obj.EncodingString(),
	})
}

// Del 删除键
func (h *Handler) Del(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"deleted": h.db.Del(c.Param("key"))})
}

// StringSet 设置字符串键，整体替换旧值
func (h *Handler) StringSet(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.db.Set(c.Param("key"), storage.NewStringObject([]byte(c.Param("value"))))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// StringGet 读取字符串键
func (h *Handler) StringGet(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	obj, err := h.db.Get(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	val, err := obj.GetStringValue()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": string(val)})
}

// HashSet 设置哈希字段
func (h *Handler) HashSet(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	err := h.db.HSet(c.Param("key"), []byte(c.Param("field")), []byte(c.Param("value")))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// HashGet 读取哈希字段
func (h *Handler) HashGet(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	obj, err := h.db.Get(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	hash, err := obj.GetHash()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	val, ok := hash.Get([]byte(c.Param("field")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": string(val)})
}

// SetAdd 添加集合成员
func (h *Handler) SetAdd(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.db.SAdd(c.Param("key"), []byte(c.Param("member"))); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetMembers 列出集合成员
func (h *Handler) SetMembers(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	obj, err := h.db.Get(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	set, err := obj.GetSet()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	members := make([]string, 0, set.Card())
	for _, m := range set.Members() {
		members = append(members, string(m))
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// ListPushHead 在列表头部插入
func (h *Handler) ListPushHead(c *gin.Context) {
	h.listPush(c, true)
}

// ListPushTail 在列表尾部插入
func (h *Handler) ListPushTail(c *gin.Context) {
	h.listPush(c, false)
}

func (h *Handler) listPush(c *gin.Context, head bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, err := h.db.GetOrCreateList(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if head {
		list.PushHead([]byte(c.Param("value")))
	} else {
		list.PushTail([]byte(c.Param("value")))
	}
	c.JSON(http.StatusOK, gin.H{"len": list.Len()})
}

// ListRotate 尾部元素转到头部
func (h *Handler) ListRotate(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, err := h.db.GetOrCreateList(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	list.Rotate()
	c.JSON(http.StatusOK, gin.H{"len": list.Len()})
}

// ListRange 读取 [start, stop] 闭区间的元素，默认整个列表
func (h *Handler) ListRange(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start, err := strconv.Atoi(c.DefaultQuery("start", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad start"})
		return
	}
	stop, err := strconv.Atoi(c.DefaultQuery("stop", "-1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad stop"})
		return
	}

	obj, err := h.db.Get(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	list, err := obj.GetList()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	values := make([]string, 0)
	it := list.Range(start, stop)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		values = append(values, string(v))
	}
	c.JSON(http.StatusOK, gin.H{"values": values})
}

// ZSetAdd 添加有序集合成员
func (h *Handler) ZSetAdd(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	score, err := strconv.ParseFloat(c.Param("score"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad score"})
		return
	}
	zset, err := h.db.GetOrCreateZSet(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := zset.Add([]byte(c.Param("member")), score); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": zset.Card()})
}

// ZSetRank 查询成员排名（0 起计数）
func (h *Handler) ZSetRank(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	zset, err := h.getZSet(c)
	if err != nil {
		return
	}
	rank, ok := zset.Rank([]byte(c.Param("member")), false)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rank": rank})
}

// ZSetByRank 查询指定排名处的成员（0 起计数）
func (h *Handler) ZSetByRank(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	zset, err := h.getZSet(c)
	if err != nil {
		return
	}
	rank, err := strconv.Atoi(c.Param("rank"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad rank"})
		return
	}
	member, score, ok := zset.ByRank(rank)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "rank out of range"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": string(member), "score": score})
}

// getZSet 取出已有的 ZSet，错误时直接写响应
func (h *Handler) getZSet(c *gin.Context) (*structure.RedisZSet, error) {
	obj, err := h.db.Get(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, err
	}
	zset, err := obj.GetZSet()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return nil, err
	}
	return zset, nil
}
