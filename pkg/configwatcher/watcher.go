package configwatcher

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"league_stats/internal/config"
	"league_stats/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

// Watch 监听文件或目录，debounce 时间内的多次变更合并为一次回调
// 阻塞直到 ctx 结束
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if err := watcher.Add(absPath); err != nil {
			logger.Log.Warn("Skip unwatchable path", zap.String("path", absPath), zap.Error(err))
		}
	}

	changed := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			changed[event.Name] = struct{}{}
			// 防抖处理
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true
		case <-timer.C:
			pending = false
			names := make([]string, 0, len(changed))
			for name := range changed {
				names = append(names, name)
			}
			sort.Strings(names)
			changed = make(map[string]struct{})
			onChange(names)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("File watcher error", zap.Error(err))
		}
	}
}

// WatchConfig 监听配置目录，config.* 变更后重新加载并回调
func WatchConfig(ctx context.Context, configDir string, reloader ConfigReloader) error {
	return Watch(ctx, []string{configDir}, time.Second, func(changed []string) {
		touched := false
		for _, name := range changed {
			if base := filepath.Base(name); len(base) > 7 && base[:7] == "config." {
				touched = true
				break
			}
		}
		if !touched {
			return
		}

		// 重新加载配置
		newCfg, err := config.LoadConfig(configDir)
		if err != nil {
			logger.Log.Error("Failed to reload config", zap.Error(err))
			return
		}
		logger.Log.Info("Config reloaded", zap.Int("series", len(newCfg.Series)))
		reloader(newCfg)
	})
}
