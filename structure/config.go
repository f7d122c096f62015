package structure

/*
 * ============================================================================
 * 编码转换阈值配置
 * ============================================================================
 *
 * 这些阈值决定紧凑编码何时升级为通用编码。
 * 默认值与 Redis 一致，嵌入方可以在启动时通过 ApplyLimits 覆盖。
 * 转换在触发写入的路径内同步完成：超过阈值的那次写入先触发转换，
 * 再落到新结构上，不会出现"挂起"的转换。
 */

// 默认阈值
const (
	DefaultHashMaxListpackEntries = 512 // Hash 超过此 field 数转换为 dict
	DefaultHashMaxListpackValue   = 64  // Hash field/value 超过此字节数转换为 dict
	DefaultSetMaxIntsetEntries    = 512 // Set 超过此数量转换为 hashtable
	DefaultZSetMaxListpackEntries = 128 // ZSet 超过此数量转换为 skiplist
	DefaultZSetMaxListpackValue   = 64  // ZSet member 超过此字节数转换为 skiplist
	DefaultListMaxNodeEntries     = 128 // quicklist 单节点最大元素数
)

// 当前生效的阈值（进程级，启动时设置一次）
var (
	HashMaxListpackEntries = DefaultHashMaxListpackEntries
	HashMaxListpackValue   = DefaultHashMaxListpackValue
	SetMaxIntsetEntries    = DefaultSetMaxIntsetEntries
	ZSetMaxListpackEntries = DefaultZSetMaxListpackEntries
	ZSetMaxListpackValue   = DefaultZSetMaxListpackValue
	ListMaxNodeEntries     = DefaultListMaxNodeEntries
)

// Limits 一组可覆盖的编码阈值，零值字段保持默认
type Limits struct {
	HashMaxListpackEntries int
	HashMaxListpackValue   int
	SetMaxIntsetEntries    int
	ZSetMaxListpackEntries int
	ZSetMaxListpackValue   int
	ListMaxNodeEntries     int
}

// ApplyLimits 应用阈值覆盖（只接受正数）
func ApplyLimits(l Limits) {
	if l.HashMaxListpackEntries > 0 {
		HashMaxListpackEntries = l.HashMaxListpackEntries
	}
	if l.HashMaxListpackValue > 0 {
		HashMaxListpackValue = l.HashMaxListpackValue
	}
	if l.SetMaxIntsetEntries > 0 {
		SetMaxIntsetEntries = l.SetMaxIntsetEntries
	}
	if l.ZSetMaxListpackEntries > 0 {
		ZSetMaxListpackEntries = l.ZSetMaxListpackEntries
	}
	if l.ZSetMaxListpackValue > 0 {
		ZSetMaxListpackValue = l.ZSetMaxListpackValue
	}
	if l.ListMaxNodeEntries > 0 {
		ListMaxNodeEntries = l.ListMaxNodeEntries
	}
}

// ResetLimits 恢复默认阈值（测试用）
func ResetLimits() {
	HashMaxListpackEntries = DefaultHashMaxListpackEntries
	HashMaxListpackValue = DefaultHashMaxListpackValue
	SetMaxIntsetEntries = DefaultSetMaxIntsetEntries
	ZSetMaxListpackEntries = DefaultZSetMaxListpackEntries
	ZSetMaxListpackValue = DefaultZSetMaxListpackValue
	ListMaxNodeEntries = DefaultListMaxNodeEntries
}
