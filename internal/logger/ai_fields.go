package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Log field keys shared by everything that talks to an AI provider.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// StringField is a key/value pair destined for a structured log entry.
type StringField struct {
	Key   string
	Value string
}

// StringFields turns the pairs into zap fields. Keys and values are
// trimmed; pairs where either side ends up empty are dropped so sparse
// configs do not produce blank fields.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key := strings.TrimSpace(f.Key)
		value := strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}

		out = append(out, zap.String(key, value))
	}

	return out
}

// WithFields attaches fields to the logger, substituting a no-op logger
// for nil so callers never have to guard.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields is the provider/model pair every advisor log line carries.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields returns a logger annotated with the provider and model.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}
