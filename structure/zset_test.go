package structure

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZSetAddScoreRank(t *testing.T) {
	rz := NewZSet()
	assert.Equal(t, OBJ_ENCODING_LISTPACK, rz.Encoding())

	require.NoError(t, rz.Add([]byte("c"), 3.0))
	require.NoError(t, rz.Add([]byte("a"), 1.0))
	require.NoError(t, rz.Add([]byte("b"), 2.0))
	assert.Equal(t, 3, rz.Card())

	score, ok := rz.Score([]byte("b"))
	require.True(t, ok)
	assert.Equal(t, 2.0, score)
	_, ok = rz.Score([]byte("missing"))
	assert.False(t, ok)

	// 按 (score, member) 排序的排名
	for i, m := range []string{"a", "b", "c"} {
		rank, ok := rz.Rank([]byte(m), false)
		require.True(t, ok)
		assert.Equal(t, i, rank)

		member, score, ok := rz.ByRank(i)
		require.True(t, ok)
		assert.Equal(t, []byte(m), member)
		assert.Equal(t, float64(i+1), score)
	}

	rank, ok := rz.Rank([]byte("a"), true)
	require.True(t, ok)
	assert.Equal(t, 2, rank)

	_, _, ok = rz.ByRank(3)
	assert.False(t, ok)
	_, _, ok = rz.ByRank(-1)
	assert.False(t, ok)
}

func TestZSetUpdateScoreMoves(t *testing.T) {
	rz := NewZSet()
	require.NoError(t, rz.Add([]byte("a"), 1.0))
	require.NoError(t, rz.Add([]byte("b"), 2.0))
	require.NoError(t, rz.Add([]byte("c"), 3.0))

	// 改分值移动位置，不新增成员
	require.NoError(t, rz.Add([]byte("a"), 10.0))
	assert.Equal(t, 3, rz.Card())

	rank, ok := rz.Rank([]byte("a"), false)
	require.True(t, ok)
	assert.Equal(t, 2, rank)

	// 分值不变为空操作
	require.NoError(t, rz.Add([]byte("b"), 2.0))
	assert.Equal(t, 3, rz.Card())
}

func TestZSetEqualScoreMemberOrder(t *testing.T) {
	rz := NewZSet()
	require.NoError(t, rz.Add([]byte("banana"), 1.0))
	require.NoError(t, rz.Add([]byte("apple"), 1.0))

	member, _, ok := rz.ByRank(0)
	require.True(t, ok)
	assert.Equal(t, []byte("apple"), member)
}

func TestZSetRemove(t *testing.T) {
	rz := NewZSet()
	require.NoError(t, rz.Add([]byte("a"), 1.0))
	require.NoError(t, rz.Add([]byte("b"), 2.0))

	require.NoError(t, rz.Remove([]byte("a")))
	assert.ErrorIs(t, rz.Remove([]byte("a")), ErrMemberNotFound)
	assert.Equal(t, 1, rz.Card())

	rank, ok := rz.Rank([]byte("b"), false)
	require.True(t, ok)
	assert.Equal(t, 0, rank)
}

func TestZSetRange(t *testing.T) {
	rz := NewZSet()
	for i := 0; i < 5; i++ {
		require.NoError(t, rz.Add([]byte(fmt.Sprintf("m%d", i)), float64(i)))
	}

	collect := func(entries []ZSetEntry) []string {
		out := []string{}
		for _, e := range entries {
			out = append(out, string(e.Member()))
		}
		return out
	}

	assert.Equal(t, []string{"m1", "m2", "m3"}, collect(rz.Range(1, 3, false)))
	assert.Equal(t, []string{"m3", "m2", "m1"}, collect(rz.Range(1, 3, true)))
	assert.Equal(t, []string{"m0", "m1", "m2", "m3", "m4"}, collect(rz.Range(0, -1, false)))
	assert.Equal(t, []string{"m3", "m4"}, collect(rz.Range(-2, -1, false)))
	assert.Empty(t, collect(rz.Range(3, 1, false)))
}

func TestZSetEntryCountConversion(t *testing.T) {
	ApplyLimits(Limits{ZSetMaxListpackEntries: 4})
	defer ResetLimits()

	rz := NewZSet()
	for i := 0; i < 4; i++ {
		require.NoError(t, rz.Add([]byte(fmt.Sprintf("m%d", i)), float64(i)))
	}
	require.Equal(t, OBJ_ENCODING_LISTPACK, rz.Encoding())

	// 第 5 个成员触发转换，转换前的成员和分值全部保留
	require.NoError(t, rz.Add([]byte("m4"), 4.0))
	assert.Equal(t, OBJ_ENCODING_SKIPLIST, rz.Encoding())
	assert.Equal(t, 5, rz.Card())

	for i := 0; i < 5; i++ {
		m := []byte(fmt.Sprintf("m%d", i))
		score, ok := rz.Score(m)
		require.True(t, ok, "m%d", i)
		assert.Equal(t, float64(i), score)

		rank, ok := rz.Rank(m, false)
		require.True(t, ok)
		assert.Equal(t, i, rank)

		member, _, ok := rz.ByRank(i)
		require.True(t, ok)
		assert.Equal(t, m, member)
	}
}

func TestZSetLongMemberConversion(t *testing.T) {
	rz := NewZSet()
	require.NoError(t, rz.Add([]byte("short"), 1.0))
	require.Equal(t, OBJ_ENCODING_LISTPACK, rz.Encoding())

	long := bytes.Repeat([]byte("m"), DefaultZSetMaxListpackValue+1)
	require.NoError(t, rz.Add(long, 2.0))
	assert.Equal(t, OBJ_ENCODING_SKIPLIST, rz.Encoding())

	score, ok := rz.Score(long)
	require.True(t, ok)
	assert.Equal(t, 2.0, score)
	score, ok = rz.Score([]byte("short"))
	require.True(t, ok)
	assert.Equal(t, 1.0, score)
}

func TestZSetSkiplistBehaviorMatchesListpack(t *testing.T) {
	ApplyLimits(Limits{ZSetMaxListpackEntries: 2})
	defer ResetLimits()

	rz := NewZSet()
	for i := 9; i >= 0; i-- {
		require.NoError(t, rz.Add([]byte(fmt.Sprintf("m%d", i)), float64(i)))
	}
	require.Equal(t, OBJ_ENCODING_SKIPLIST, rz.Encoding())

	// 转换后排名、反向排名、区间语义不变
	rank, ok := rz.Rank([]byte("m7"), false)
	require.True(t, ok)
	assert.Equal(t, 7, rank)
	rank, ok = rz.Rank([]byte("m7"), true)
	require.True(t, ok)
	assert.Equal(t, 2, rank)

	entries := rz.Range(-3, -1, true)
	require.Len(t, entries, 3)
	assert.Equal(t, []byte("m9"), entries[0].Member())
	assert.Equal(t, []byte("m8"), entries[1].Member())
	assert.Equal(t, []byte("m7"), entries[2].Member())

	// 转换后改分值与删除
	require.NoError(t, rz.Add([]byte("m0"), 100.0))
	rank, ok = rz.Rank([]byte("m0"), false)
	require.True(t, ok)
	assert.Equal(t, 9, rank)

	require.NoError(t, rz.Remove([]byte("m0")))
	assert.ErrorIs(t, rz.Remove([]byte("m0")), ErrMemberNotFound)
	assert.Equal(t, 9, rz.Card())
}

func TestZSetFractionalScores(t *testing.T) {
	rz := NewZSet()
	require.NoError(t, rz.Add([]byte("a"), 1.5))
	require.NoError(t, rz.Add([]byte("b"), -0.25))

	score, ok := rz.Score([]byte("a"))
	require.True(t, ok)
	assert.Equal(t, 1.5, score)
	score, ok = rz.Score([]byte("b"))
	require.True(t, ok)
	assert.Equal(t, -0.25, score)

	member, _, ok := rz.ByRank(0)
	require.True(t, ok)
	assert.Equal(t, []byte("b"), member)
}
