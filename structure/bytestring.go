package structure

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

/*
 * ============================================================================
 * ByteString - 二进制安全的动态字节串
 * ============================================================================
 *
 * 作用类似 Redis 的 SDS（Simple Dynamic String）：
 *
 * 1. O(1) 获取长度
 *    - 逻辑长度 len 单独记录，不依赖结束符
 *
 * 2. 二进制安全
 *    - 可以存储包含 \0 的任意字节，len 决定内容边界
 *
 * 3. 预分配机制（减少内存重分配）
 *    - Append 时容量增长到不小于所需长度的下一个 2 的幂
 *    - 截断时只改 len，不释放内存（惰性空间释放）
 *
 * 【不变式】
 * - len <= cap(buf)，逻辑内容永远是 buf[:len]
 * - 比较、相等、哈希只看 buf[:len]：内容相同但容量不同的
 *   两个 ByteString 必须相等且哈希一致
 * - 实例之间从不共享缓冲区，Range 返回独立副本
 */

// ByteString 动态字节串
type ByteString struct {
	buf []byte // 物理缓冲区
	len int    // 逻辑长度（<= cap(buf)）
}

// NewByteString 从文本创建 ByteString
func NewByteString(s string) *ByteString {
	return NewByteStringFromBytes([]byte(s))
}

// NewByteStringFromBytes 从字节切片创建 ByteString（复制内容）
func NewByteStringFromBytes(b []byte) *ByteString {
	bs := &ByteString{
		buf: make([]byte, nextPowerOfTwo(len(b))),
		len: len(b),
	}
	copy(bs.buf, b)
	return bs
}

// nextPowerOfTwo 返回不小于 n 的最小 2 的幂
func nextPowerOfTwo(n int) int {
	c := 1
	for c < n {
		c <<= 1
	}
	return c
}

// Len 获取逻辑长度 - O(1)
func (bs *ByteString) Len() int {
	return bs.len
}

// Cap 获取物理容量
func (bs *ByteString) Cap() int {
	return cap(bs.buf)
}

// Bytes 获取内容的独立副本
func (bs *ByteString) Bytes() []byte {
	out := make([]byte, bs.len)
	copy(out, bs.buf[:bs.len])
	return out
}

// String 获取内容的字符串表示
func (bs *ByteString) String() string {
	return string(bs.buf[:bs.len])
}

// Append 追加另一个 ByteString 的内容
func (bs *ByteString) Append(other *ByteString) {
	bs.AppendBytes(other.buf[:other.len])
}

// AppendBytes 追加字节切片的内容
func (bs *ByteString) AppendBytes(b []byte) {
	need := bs.len + len(b)
	if need > cap(bs.buf) {
		grown := make([]byte, nextPowerOfTwo(need))
		copy(grown, bs.buf[:bs.len])
		bs.buf = grown
	}
	bs.buf = bs.buf[:cap(bs.buf)]
	copy(bs.buf[bs.len:], b)
	bs.len = need
}

// Truncate 截断到指定长度（惰性释放：容量不变）
func (bs *ByteString) Truncate(n int) error {
	if n < 0 || n > bs.len {
		return ErrRange
	}
	bs.len = n
	return nil
}

// Range 返回 [start, end] 闭区间的独立副本
// start < 0、end >= len 或 start > end 时返回 ErrRange
func (bs *ByteString) Range(start, end int) (*ByteString, error) {
	if start < 0 || end >= bs.len || start > end {
		return nil, ErrRange
	}
	return NewByteStringFromBytes(bs.buf[start : end+1]), nil
}

// Compare 按无符号字节序比较逻辑内容
func (bs *ByteString) Compare(other *ByteString) int {
	return bytes.Compare(bs.buf[:bs.len], other.buf[:other.len])
}

// Equal 判断逻辑内容是否相等
func (bs *ByteString) Equal(other *ByteString) bool {
	return bytes.Equal(bs.buf[:bs.len], other.buf[:other.len])
}

// Hash 计算逻辑内容的哈希（只看 buf[:len]，与容量无关）
func (bs *ByteString) Hash() uint64 {
	return xxhash.Sum64(bs.buf[:bs.len])
}
