package service

import (
	"fmt"

	"rawblog/app/config"
)

// ConfigFlags are shared by the commands that need a configuration.
// Flags override values read from the file.
type ConfigFlags struct {
	ConfigFile string `short:"f" long:"config" description:"Configuration YAML path"`
	Addr       string `long:"addr" description:"Listen address"`
	Backend    string `long:"backend" choice:"memory" choice:"badger" choice:"sqlite" description:"Post store backend"`
	IDStrategy string `long:"id-strategy" choice:"sequence" choice:"size" description:"How new post IDs are chosen"`
	EscapeHTML bool   `long:"escape-html" description:"HTML-escape post titles and contents"`
}

func (f *ConfigFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	if f.Addr != "" {
		cfg.Server.Addr = f.Addr
	}
	if f.Backend != "" {
		cfg.Store.Backend = f.Backend
	}
	if f.IDStrategy != "" {
		cfg.Store.IDStrategy = f.IDStrategy
	}
	if f.EscapeHTML {
		cfg.Render.EscapeHTML = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
