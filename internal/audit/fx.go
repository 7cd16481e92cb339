package audit

import (
	"github.com/flashbill/flashbill/internal/audit/repository"
	"github.com/flashbill/flashbill/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
