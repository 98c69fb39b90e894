package bootstrap

import (
	"vintour/internal/pkg/config"
	"vintour/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTValidator,
	),
)

func NewJWTValidator(cfg config.Config) *jwt.Validator {
	return jwt.NewValidator(cfg.JWT)
}
