package supplier

import (
	"github.com/smallbiznis/invoicing/internal/supplier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("supplier",
	fx.Provide(service.NewService),
)
