package constants

import "github.com/go-playground/validator/v10"

type ContextKey string

const (
	PoolKey   ContextKey = "pool"
	TxKey     ContextKey = "tx"
	ActorKey  ContextKey = "actor"
	LoggerKey ContextKey = "logger"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
