package client

import (
	"github.com/smallbiznis/invoicing/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client",
	fx.Provide(service.NewService),
)
