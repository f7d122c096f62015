package structure

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSkipList() *SkipList {
	return NewSkipListSeeded(rand.New(rand.NewSource(42)))
}

// slForward 正向遍历所有节点
func slForward(sl *SkipList) []*SkipListNode {
	out := []*SkipListNode{}
	for n := sl.First(); n != nil; n = n.level[0].forward {
		out = append(out, n)
	}
	return out
}

func TestSkipListInsertOrder(t *testing.T) {
	sl := newTestSkipList()
	assert.True(t, sl.Insert([]byte("c"), 3.0))
	assert.True(t, sl.Insert([]byte("a"), 1.0))
	assert.True(t, sl.Insert([]byte("b"), 2.0))

	assert.Equal(t, uint32(3), sl.Len())

	nodes := slForward(sl)
	require.Len(t, nodes, 3)
	assert.Equal(t, []byte("a"), nodes[0].Member())
	assert.Equal(t, []byte("b"), nodes[1].Member())
	assert.Equal(t, []byte("c"), nodes[2].Member())
	assert.Equal(t, []byte("c"), sl.Tail().Member())
}

func TestSkipListDuplicateRejected(t *testing.T) {
	sl := newTestSkipList()
	require.True(t, sl.Insert([]byte("a"), 1.0))

	// 精确重复被拒绝
	assert.False(t, sl.Insert([]byte("a"), 1.0))
	assert.Equal(t, uint32(1), sl.Len())

	// 同成员不同分值不算重复（ZSet 层负责先删后插）
	assert.True(t, sl.Insert([]byte("a"), 2.0))
	assert.Equal(t, uint32(2), sl.Len())
}

func TestSkipListEqualScoreMemberOrder(t *testing.T) {
	sl := newTestSkipList()
	sl.Insert([]byte("banana"), 1.0)
	sl.Insert([]byte("apple"), 1.0)
	sl.Insert([]byte("cherry"), 1.0)

	nodes := slForward(sl)
	require.Len(t, nodes, 3)
	// 分值相同时按 member 字节序
	assert.Equal(t, []byte("apple"), nodes[0].Member())
	assert.Equal(t, []byte("banana"), nodes[1].Member())
	assert.Equal(t, []byte("cherry"), nodes[2].Member())

	assert.Equal(t, uint32(1), sl.Rank([]byte("apple"), 1.0))
	assert.Equal(t, uint32(2), sl.Rank([]byte("banana"), 1.0))
	assert.Equal(t, uint32(3), sl.Rank([]byte("cherry"), 1.0))
}

func TestSkipListRankByRankInverse(t *testing.T) {
	sl := newTestSkipList()
	rng := rand.New(rand.NewSource(99))

	type pair struct {
		member string
		score  float64
	}
	pairs := make([]pair, 0, 200)
	for i := 0; i < 200; i++ {
		p := pair{
			member: fmt.Sprintf("m%04d", i),
			score:  float64(rng.Intn(50)), // 故意制造大量同分
		}
		pairs = append(pairs, p)
		require.True(t, sl.Insert([]byte(p.member), p.score))
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score < pairs[j].score
		}
		return pairs[i].member < pairs[j].member
	})

	require.Equal(t, uint32(200), sl.Len())

	for i, p := range pairs {
		rank := sl.Rank([]byte(p.member), p.score)
		require.Equal(t, uint32(i+1), rank, "member %s", p.member)

		node := sl.ByRank(rank)
		require.NotNil(t, node)
		assert.Equal(t, []byte(p.member), node.Member())
		assert.Equal(t, p.score, node.Score())
	}

	assert.Nil(t, sl.ByRank(0))
	assert.Nil(t, sl.ByRank(201))
	assert.Equal(t, uint32(0), sl.Rank([]byte("missing"), 1.0))
	// 分值不匹配时找不到
	assert.Equal(t, uint32(0), sl.Rank([]byte(pairs[0].member), pairs[0].score+1000))
}

func TestSkipListDelete(t *testing.T) {
	sl := newTestSkipList()
	for i := 0; i < 10; i++ {
		sl.Insert([]byte(fmt.Sprintf("m%d", i)), float64(i))
	}

	assert.True(t, sl.Delete([]byte("m5"), 5.0))
	assert.False(t, sl.Delete([]byte("m5"), 5.0))
	assert.False(t, sl.Delete([]byte("m6"), 99.0)) // 分值不符
	assert.Equal(t, uint32(9), sl.Len())

	// 删除后排名收缩
	assert.Equal(t, uint32(5), sl.Rank([]byte("m4"), 4.0))
	assert.Equal(t, uint32(6), sl.Rank([]byte("m6"), 6.0))
	node := sl.ByRank(6)
	require.NotNil(t, node)
	assert.Equal(t, []byte("m6"), node.Member())

	// 删除尾节点更新 tail
	assert.True(t, sl.Delete([]byte("m9"), 9.0))
	assert.Equal(t, []byte("m8"), sl.Tail().Member())
}

func TestSkipListBackwardTraversal(t *testing.T) {
	sl := newTestSkipList()
	for i := 0; i < 50; i++ {
		sl.Insert([]byte(fmt.Sprintf("m%02d", i)), float64(i%7))
	}

	forward := slForward(sl)

	backward := []*SkipListNode{}
	for n := sl.Tail(); n != nil; n = n.backward {
		backward = append(backward, n)
	}

	require.Len(t, backward, len(forward))
	for i := range forward {
		assert.True(t, bytes.Equal(forward[i].Member(), backward[len(backward)-1-i].Member()))
	}
}

func TestSkipListDrainToEmpty(t *testing.T) {
	sl := newTestSkipList()
	for i := 0; i < 20; i++ {
		sl.Insert([]byte(fmt.Sprintf("m%d", i)), float64(i))
	}
	for i := 0; i < 20; i++ {
		require.True(t, sl.Delete([]byte(fmt.Sprintf("m%d", i)), float64(i)))
	}

	assert.Equal(t, uint32(0), sl.Len())
	assert.Nil(t, sl.First())
	assert.Nil(t, sl.Tail())
	// 顶部空层收缩回 1
	assert.Equal(t, 1, sl.level)
}
