package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	PoolKey   ContextKey = "pool"
	TxKey     ContextKey = "tx"
	ActorKey  ContextKey = "actor"
	ParamsKey ContextKey = "params"
	LoggerKey ContextKey = "logger"
)

// Validate is the shared validator instance used by DTO checks.
var Validate = validator.New(validator.WithRequiredStructEnabled())
