package config

import (
	"sync/atomic"
)

// 原子存储当前生效的配置，供各业务读取
var current atomic.Value // *Config

// Set 设置当前配置
func Set(c *Config) {
	current.Store(c)
}

// Get 获取当前配置（未初始化时为 nil）
func Get() *Config {
	v := current.Load()
	if v == nil {
		return nil
	}
	return v.(*Config)
}
