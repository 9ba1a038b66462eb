package config

import (
	"context"
	"sync"

	"github.com/pucrs-ages/sarc-gateway/internal/fileutil"
	"github.com/pucrs-ages/sarc-gateway/internal/log"
)

// A ChangeListener is called when configuration changes.
type ChangeListener = func(context.Context, *Config)

// A Source gets configuration.
type Source interface {
	GetConfig() *Config
	OnConfigChange(context.Context, ChangeListener)
}

// A StaticSource always returns the same config. Useful for testing.
type StaticSource struct {
	mu  sync.Mutex
	cfg *Config
	lis []ChangeListener
}

// NewStaticSource creates a new StaticSource.
func NewStaticSource(cfg *Config) *StaticSource {
	return &StaticSource{cfg: cfg}
}

// GetConfig gets the config.
func (src *StaticSource) GetConfig() *Config {
	src.mu.Lock()
	defer src.mu.Unlock()

	return src.cfg
}

// SetConfig sets the config.
func (src *StaticSource) SetConfig(ctx context.Context, cfg *Config) {
	src.mu.Lock()
	lis := append([]ChangeListener(nil), src.lis...)
	src.cfg = cfg
	src.mu.Unlock()

	for _, li := range lis {
		li(ctx, cfg)
	}
}

// OnConfigChange adds a listener.
func (src *StaticSource) OnConfigChange(_ context.Context, li ChangeListener) {
	src.mu.Lock()
	defer src.mu.Unlock()

	src.lis = append(src.lis, li)
}

// A FileOrEnvironmentSource retrieves config options from a file or the
// environment, and re-reads the file whenever it changes. A change that
// fails to load or validate is logged and discarded; the previous config
// stays live.
type FileOrEnvironmentSource struct {
	configFile string
	watcher    *fileutil.Watcher

	mu     sync.RWMutex
	config *Config
	lis    []ChangeListener
}

// NewFileOrEnvironmentSource creates a new FileOrEnvironmentSource.
func NewFileOrEnvironmentSource(ctx context.Context, configFile string) (*FileOrEnvironmentSource, error) {
	options, err := newOptionsFromConfig(configFile)
	if err != nil {
		return nil, err
	}

	src := &FileOrEnvironmentSource{
		configFile: configFile,
		config:     &Config{Options: options},
	}
	if configFile != "" {
		src.watcher = fileutil.NewWatcher()
		if err := src.watcher.Watch(ctx, configFile); err != nil {
			log.Warn(ctx).Err(err).Str("file", configFile).
				Msg("config: could not watch file, continuing without reload")
		} else {
			ch := src.watcher.Bind()
			go func() {
				for range ch {
					src.reload(ctx)
				}
			}()
		}
	}
	return src, nil
}

// GetConfig gets the config.
func (src *FileOrEnvironmentSource) GetConfig() *Config {
	src.mu.RLock()
	defer src.mu.RUnlock()

	return src.config
}

// OnConfigChange adds a listener.
func (src *FileOrEnvironmentSource) OnConfigChange(_ context.Context, li ChangeListener) {
	src.mu.Lock()
	defer src.mu.Unlock()

	src.lis = append(src.lis, li)
}

func (src *FileOrEnvironmentSource) reload(ctx context.Context) {
	options, err := newOptionsFromConfig(src.configFile)
	if err != nil {
		log.Error(ctx).Err(err).Str("file", src.configFile).
			Msg("config: ignoring invalid config change")
		return
	}

	cfg := &Config{Options: options}
	src.mu.Lock()
	src.config = cfg
	lis := append([]ChangeListener(nil), src.lis...)
	src.mu.Unlock()

	log.Info(ctx).Str("file", src.configFile).Msg("config: configuration reloaded")
	for _, li := range lis {
		li(ctx, cfg)
	}
}
