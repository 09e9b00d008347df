package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// NeutralColor is returned for invoices without a usable status color.
const NeutralColor = "gray"

// PresentationConfig holds the slug -> color fallback table used for statuses
// seeded before statuses carried their own color.
type PresentationConfig struct {
	DefaultColor string            `mapstructure:"default_color"`
	StatusColors map[string]string `mapstructure:"status_colors"`
}

func DefaultPresentationConfig() PresentationConfig {
	return PresentationConfig{
		DefaultColor: NeutralColor,
		StatusColors: map[string]string{
			"draft":     "gray",
			"pending":   "yellow",
			"sent":      "blue",
			"paid":      "green",
			"overdue":   "red",
			"cancelled": "gray",
		},
	}
}

type PresentationConfigHolder struct {
	current atomic.Value // holds PresentationConfig
}

// NewPresentationConfigHolder loads presentation.yml from the configured path
// (or the default search paths) and keeps it hot reloaded. Missing files fall
// back to DefaultPresentationConfig.
func NewPresentationConfigHolder(appCfg Config) (*PresentationConfigHolder, error) {
	v := viper.New()

	if appCfg.PresentationConfigPath != "" {
		v.SetConfigFile(appCfg.PresentationConfigPath)
	} else {
		v.SetConfigName("presentation")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/invoicing")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("INVOICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &PresentationConfigHolder{}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		holder.current.Store(DefaultPresentationConfig())
		return holder, nil
	}

	cfg, err := decodePresentationConfig(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodePresentationConfig(v)
		if err != nil {
			log.Printf("[presentation-config] reload failed: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[presentation-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPresentationConfigHolder wraps a fixed table.
func NewStaticPresentationConfigHolder(cfg PresentationConfig) *PresentationConfigHolder {
	holder := &PresentationConfigHolder{}
	holder.current.Store(mergePresentationConfig(cfg))
	return holder
}

func (h *PresentationConfigHolder) Get() PresentationConfig {
	if h == nil {
		return DefaultPresentationConfig()
	}
	cfg, ok := h.current.Load().(PresentationConfig)
	if !ok {
		return DefaultPresentationConfig()
	}
	return cfg
}

// DefaultColor returns the neutral color class.
func (h *PresentationConfigHolder) DefaultColor() string {
	return h.Get().DefaultColor
}

// FallbackColor looks up a status slug in the fallback table.
func (h *PresentationConfigHolder) FallbackColor(slug string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(slug))
	if key == "" {
		return "", false
	}
	color, ok := h.Get().StatusColors[key]
	if !ok || strings.TrimSpace(color) == "" {
		return "", false
	}
	return color, true
}

func decodePresentationConfig(v *viper.Viper) (PresentationConfig, error) {
	var cfg PresentationConfig
	if err := v.UnmarshalKey("presentation", &cfg); err != nil {
		return PresentationConfig{}, err
	}
	return mergePresentationConfig(cfg), nil
}

// mergePresentationConfig layers cfg on top of the defaults.
func mergePresentationConfig(cfg PresentationConfig) PresentationConfig {
	merged := DefaultPresentationConfig()
	if color := strings.TrimSpace(cfg.DefaultColor); color != "" {
		merged.DefaultColor = color
	}
	for slug, color := range cfg.StatusColors {
		key := strings.ToLower(strings.TrimSpace(slug))
		if key == "" {
			continue
		}
		merged.StatusColors[key] = strings.TrimSpace(color)
	}
	return merged
}
