package commands

import (
	"context"
	"errors"

	"github.com/spf13/pflag"

	"github.com/JonMunkholm/datalens/internal/config"
)

// configKey is used to store config in context.
type configKey struct{}

// WithConfig returns ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the config stored by the root command.
func configFrom(ctx context.Context) (*config.Config, error) {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
			return cfg, nil
		}
	}
	return nil, errors.New("configuration not loaded")
}

// ApplyFlags copies explicitly set persistent flags onto cfg and re-validates it.
func ApplyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	overrides := []struct {
		name string
		dst  *string
	}{
		{"data", &cfg.Dataset.Path},
		{"history", &cfg.History.URL},
		{"log-level", &cfg.Logging.Level},
		{"log-format", &cfg.Logging.Format},
	}
	for _, o := range overrides {
		f := flags.Lookup(o.name)
		if f == nil || !f.Changed {
			continue
		}
		*o.dst = f.Value.String()
	}
	return cfg.Validate()
}
