package invoice

import (
	catalogdomain "github.com/smallbiznis/facturo/internal/catalog/domain"
	"github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/smallbiznis/facturo/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(func(catalog catalogdomain.Service) domain.PriceLookup { return catalog }),
	fx.Provide(service.NewService),
)
