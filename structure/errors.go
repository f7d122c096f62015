package structure

import "errors"

/*
 * ============================================================================
 * 结构层错误
 * ============================================================================
 *
 * 全部是哨兵错误，调用方用 errors.Is 判断。
 * 结构层不感知键空间，键级错误（键不存在、类型不符）在 storage 层定义。
 */

var (
	// ErrRange 下标或区间越界
	ErrRange = errors.New("index out of range")

	// ErrEncoding 缓冲区内容不是良构的编码形式
	ErrEncoding = errors.New("bad encoding")

	// ErrEmptyList 对空列表执行弹出
	ErrEmptyList = errors.New("list is empty")

	// ErrMemberNotFound 成员不存在
	ErrMemberNotFound = errors.New("member not found")
)
