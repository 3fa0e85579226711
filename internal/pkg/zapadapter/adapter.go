// Package zapadapter 让 Temporal client/worker 的日志走 zap
package zapadapter

import (
	"fmt"

	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

type ZapAdapter struct {
	zl *zap.Logger
}

var (
	_ log.Logger     = (*ZapAdapter)(nil)
	_ log.WithLogger = (*ZapAdapter)(nil)
)

func NewZapAdapter(zapLogger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{
		// 跳过适配器自身这一层调用栈
		zl: zapLogger.WithOptions(zap.AddCallerSkip(1)),
	}
}

func (l *ZapAdapter) fields(keyvals []interface{}) []zap.Field {
	if len(keyvals)%2 != 0 {
		return []zap.Field{zap.Error(fmt.Errorf("odd number of keyvals pairs: %v", keyvals))}
	}

	var fields []zap.Field
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keyvals[i])
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	return fields
}

func (l *ZapAdapter) Debug(msg string, keyvals ...interface{}) {
	l.zl.Debug(msg, l.fields(keyvals)...)
}

func (l *ZapAdapter) Info(msg string, keyvals ...interface{}) {
	l.zl.Info(msg, l.fields(keyvals)...)
}

func (l *ZapAdapter) Warn(msg string, keyvals ...interface{}) {
	l.zl.Warn(msg, l.fields(keyvals)...)
}

func (l *ZapAdapter) Error(msg string, keyvals ...interface{}) {
	l.zl.Error(msg, l.fields(keyvals)...)
}

func (l *ZapAdapter) With(keyvals ...interface{}) log.Logger {
	return &ZapAdapter{zl: l.zl.With(l.fields(keyvals)...)}
}
