package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// WatchLogLevel 盯住配置文件，log.level变化时热更新日志级别。
// 长跑的批量任务用它在运行中打开debug。返回关闭函数
func WatchLogLevel() (func(), error) {
	file := viper.ConfigFileUsed()
	if file == "" {
		return func() {}, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// 编辑器保存往往是rename+create，盯目录而不是文件本身
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go func() {
		// 写入事件成串出现，简单防抖
		var last time.Time
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(file) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if time.Since(last) < 500*time.Millisecond {
					continue
				}
				last = time.Now()

				if err := viper.ReadInConfig(); err != nil {
					logger.Warnf("config reload failed: %v", err)
					continue
				}
				level := strings.TrimSpace(viper.GetString("log.level"))
				if level != "" {
					logger.SetLevel(level)
					logger.Infof("log level switched to %s", level)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("config watcher error: %v", err)
			}
		}
	}()

	return func() { _ = watcher.Close() }, nil
}
