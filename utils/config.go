package utils

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moostafaa/NRedis/structure"
)

/*
 * ============================================================================
 * 服务配置
 * ============================================================================
 *
 * 配置分三层，后者覆盖前者：
 *   1. 内置默认值
 *   2. YAML 配置文件（NREDIS_CONFIG 指定路径，默认不加载）
 *   3. 环境变量 / .env
 *
 * 编码切换阈值最终通过 structure.ApplyLimits 生效，
 * 零值字段表示"保持默认"。
 */

// ServerConfig 服务配置
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// 编码切换阈值，0 表示使用内置默认值
	HashMaxListpackEntries int `yaml:"hash_max_listpack_entries"`
	HashMaxListpackValue   int `yaml:"hash_max_listpack_value"`
	SetMaxIntsetEntries    int `yaml:"set_max_intset_entries"`
	ZSetMaxListpackEntries int `yaml:"zset_max_listpack_entries"`
	ZSetMaxListpackValue   int `yaml:"zset_max_listpack_value"`
	ListMaxNodeEntries     int `yaml:"list_max_node_entries"`
}

// DefaultServerConfig 返回内置默认配置
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr: ":6380",
	}
}

// LoadServerConfig 组装最终配置：默认值 -> YAML 文件 -> 环境变量
func LoadServerConfig() (*ServerConfig, error) {
	cfg := DefaultServerConfig()

	if path := GetEnv("NREDIS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Addr = GetEnvWithDefault("NREDIS_ADDR", cfg.Addr)
	cfg.HashMaxListpackEntries = intEnvOverride("NREDIS_HASH_MAX_LISTPACK_ENTRIES", cfg.HashMaxListpackEntries)
	cfg.HashMaxListpackValue = intEnvOverride("NREDIS_HASH_MAX_LISTPACK_VALUE", cfg.HashMaxListpackValue)
	cfg.SetMaxIntsetEntries = intEnvOverride("NREDIS_SET_MAX_INTSET_ENTRIES", cfg.SetMaxIntsetEntries)
	cfg.ZSetMaxListpackEntries = intEnvOverride("NREDIS_ZSET_MAX_LISTPACK_ENTRIES", cfg.ZSetMaxListpackEntries)
	cfg.ZSetMaxListpackValue = intEnvOverride("NREDIS_ZSET_MAX_LISTPACK_VALUE", cfg.ZSetMaxListpackValue)
	cfg.ListMaxNodeEntries = intEnvOverride("NREDIS_LIST_MAX_NODE_ENTRIES", cfg.ListMaxNodeEntries)

	return cfg, nil
}

// loadFile 从 YAML 文件读取配置，覆盖当前值
func (c *ServerConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Limits 转换为编码阈值集合
func (c *ServerConfig) Limits() structure.Limits {
	return structure.Limits{
		HashMaxListpackEntries: c.HashMaxListpackEntries,
		HashMaxListpackValue:   c.HashMaxListpackValue,
		SetMaxIntsetEntries:    c.SetMaxIntsetEntries,
		ZSetMaxListpackEntries: c.ZSetMaxListpackEntries,
		ZSetMaxListpackValue:   c.ZSetMaxListpackValue,
		ListMaxNodeEntries:     c.ListMaxNodeEntries,
	}
}

// Apply 把阈值写入 structure 包的全局配置
func (c *ServerConfig) Apply() {
	structure.ApplyLimits(c.Limits())
}

// intEnvOverride 环境变量存在且为正时覆盖当前值
func intEnvOverride(key string, current int) int {
	v := GetIntEnvWithDefault(key, 0)
	if v > 0 {
		return int(v)
	}
	return current
}
