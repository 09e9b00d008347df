package logger

import (
	"context"

	"github.com/smallbiznis/invoicing/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig builds the application logger, tags it with the service
// identity and installs it as the zap global.
func NewFromConfig(appCfg config.Config) (*zap.Logger, error) {
	log, err := New(Options{Level: appCfg.LogLevel, Format: appCfg.LogFormat})
	if err != nil {
		return nil, err
	}
	log = log.With(
		zap.String("service", appCfg.AppName),
		zap.String("version", appCfg.AppVersion),
		zap.String("env", appCfg.Environment),
	)
	zap.ReplaceGlobals(log)
	return log, nil
}

func registerHooks(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// Sync on stderr reports EINVAL on some platforms; nothing to recover.
			_ = log.Sync()
			return nil
		},
	})
}

var Module = fx.Module("logger",
	fx.Provide(NewFromConfig),
	fx.Invoke(registerHooks),
)
