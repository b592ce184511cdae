package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"league_stats/internal/config"
)

func TestWatch_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{dir}, 100*time.Millisecond, func(changed []string) {
			calls <- changed
		})
	}()
	// 等待监听建立
	time.Sleep(200 * time.Millisecond)

	a := filepath.Join(dir, "1.csv")
	b := filepath.Join(dir, "2.csv")
	os.WriteFile(a, []byte("a"), 0644)
	os.WriteFile(b, []byte("b"), 0644)
	os.WriteFile(a, []byte("aa"), 0644)

	select {
	case changed := <-calls:
		if len(changed) != 2 || changed[0] != a || changed[1] != b {
			t.Errorf("changed = %v, want [%s %s]", changed, a, b)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case extra := <-calls:
		t.Errorf("burst should be reported once, got extra call %v", extra)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatchConfig_ReloadsOnConfigChange(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(t.TempDir(), "data")
	write := func(title string) {
		body := "server:\n  mode: debug\nstorage:\n  local_path: " + data + "\nseries:\n" +
			"  - slug: cup\n    title: " + title + "\n    source: storage\n    prefix: cup\n"
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("Before")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	go WatchConfig(ctx, dir, func(cfg *config.Config) { reloaded <- cfg })
	time.Sleep(200 * time.Millisecond)

	// 非配置文件的变更不触发重新加载
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	select {
	case cfg := <-reloaded:
		t.Fatalf("unexpected reload: %+v", cfg.Series)
	case <-time.After(1500 * time.Millisecond):
	}

	write("After")
	select {
	case cfg := <-reloaded:
		if len(cfg.Series) != 1 || cfg.Series[0].Title != "After" {
			t.Errorf("reloaded series = %+v", cfg.Series)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}
