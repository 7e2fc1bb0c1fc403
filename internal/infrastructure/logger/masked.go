package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sensitiveKeys = []string{"api_key", "apikey", "key", "secret", "token", "password", "auth", "sign"}

// MaskSensitiveInfo keeps the first and last four characters of long values.
func MaskSensitiveInfo(info string) string {
	if info == "" {
		return ""
	}
	if len(info) <= 8 {
		return "****"
	}
	return info[:4] + strings.Repeat("*", len(info)-8) + info[len(info)-4:]
}

func NewMaskedLogger(base *zap.Logger) *zap.Logger {
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &maskedCore{Core: core}
	}))
}

type maskedCore struct {
	zapcore.Core
}

func (c *maskedCore) With(fields []zapcore.Field) zapcore.Core {
	return &maskedCore{Core: c.Core.With(maskFields(fields))}
}

func (c *maskedCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *maskedCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, maskFields(fields))
}

func maskFields(fields []zapcore.Field) []zapcore.Field {
	for i, field := range fields {
		if field.Type == zapcore.StringType && isSensitiveField(field.Key) {
			fields[i] = zap.String(field.Key, MaskSensitiveInfo(field.String))
		}
	}
	return fields
}

func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if key == s || strings.HasSuffix(key, "_"+s) || strings.HasPrefix(key, s+"_") {
			return true
		}
	}
	return false
}
