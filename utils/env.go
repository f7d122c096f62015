package utils

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
)

/*
 * ============================================================================
 * .env 文件解析工具
 * ============================================================================
 *
 * 配置来源有两层：系统环境变量优先，.env 文件兜底。
 * env 参数指定环境后缀（如 "dev" 对应 .env.dev），为空则加载 .env。
 * 文件不存在不视为错误，允许纯环境变量运行。
 */

var (
	envCache = make(map[string]string)
	envMutex sync.RWMutex
)

// LoadEnv 加载 .env 文件到缓存
func LoadEnv(env string) error {
	envMutex.Lock()
	defer envMutex.Unlock()

	envFile := ".env"
	if env != "" {
		envFile = ".env." + env
	}

	f, err := os.Open(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		envCache[key] = value
	}
	return scanner.Err()
}

// parseEnvLine 解析一行 KEY=VALUE，跳过空行和 # 注释
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	// 去掉成对的引号
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, key != ""
}

// LookupEnv 查找配置项，系统环境变量优先于 .env 缓存
func LookupEnv(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}

	envMutex.RLock()
	defer envMutex.RUnlock()

	v, ok := envCache[key]
	return v, ok
}

// GetEnv 获取配置项值，不存在时返回空串
func GetEnv(key string) string {
	v, _ := LookupEnv(key)
	return v
}

// GetEnvWithDefault 获取配置项值，带默认值
func GetEnvWithDefault(key, defaultValue string) string {
	if v := GetEnv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetIntEnvWithDefault 获取整数配置项，解析失败时返回默认值
func GetIntEnvWithDefault(key string, defaultValue int64) int64 {
	v := GetEnv(key)
	if v == "" {
		return defaultValue
	}

	val, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultValue
	}
	return val
}

// GetBoolEnvWithDefault 获取布尔配置项，解析失败时返回默认值
func GetBoolEnvWithDefault(key string, defaultValue bool) bool {
	v := GetEnv(key)
	if v == "" {
		return defaultValue
	}

	val, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return defaultValue
	}
	return val
}

// ResetEnvCache 清空缓存，配合 LoadEnv 重新加载
func ResetEnvCache() {
	envMutex.Lock()
	defer envMutex.Unlock()
	envCache = make(map[string]string)
}
