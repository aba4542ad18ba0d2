package logger

import (
	"go.uber.org/zap"
)

const (
	LevelDebug = zap.DebugLevel
	LevelInfo  = zap.InfoLevel
	LevelWarn  = zap.WarnLevel
	LevelError = zap.ErrorLevel
)

var (
	String   = zap.String
	Int      = zap.Int
	Uint     = zap.Uint
	Float64  = zap.Float64
	Duration = zap.Duration
	Bool     = zap.Bool
	ErrorF   = zap.Error
)

type (
	Field = zap.Field
)
