package status

import (
	"github.com/smallbiznis/invoicing/internal/config"
	"github.com/smallbiznis/invoicing/internal/status/domain"
	"github.com/smallbiznis/invoicing/internal/status/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("status",
	fx.Provide(repository.Provide),
	fx.Provide(func(holder *config.PresentationConfigHolder) domain.ColorTable { return holder }),
)
