package main

import (
	"log"

	"github.com/moostafaa/NRedis/server"
	"github.com/moostafaa/NRedis/storage"
	"github.com/moostafaa/NRedis/utils"
)

/*
 * ============================================================================
 * NRedis 服务入口
 * ============================================================================
 *
 * 启动流程：
 *   1. 加载 .env（NREDIS_ENV 指定环境后缀）
 *   2. 组装配置并应用编码切换阈值
 *   3. 创建键空间，挂载 HTTP 命令路由
 */

func main() {
	if err := utils.LoadEnv(utils.GetEnv("NREDIS_ENV")); err != nil {
		log.Fatalf("load env: %v", err)
	}

	cfg, err := utils.LoadServerConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.Apply()

	db := storage.NewRedisDb()
	router := server.NewRouter(db)

	log.Printf("NRedis listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
