// Copyright 2024 Pallet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig selects the zap level and an optional rotating file sink.
type LogConfig struct {
	Level string `toml:"level"`
	// Filename routes output to a rotating file; empty keeps stderr.
	Filename   string `toml:"filename"`
	MaxSizeMB  int    `toml:"max-size"`
	MaxBackups int    `toml:"max-backups"`
	MaxDays    int    `toml:"max-days"`
}

var globalLogger atomic.Pointer[zap.Logger]

func init() {
	globalLogger.Store(newLogger(LogConfig{Level: "info"}))
}

// Setup replaces the global logger. Called once by the process entry
// point; see engine.Init.
func Setup(cfg LogConfig) {
	globalLogger.Store(newLogger(cfg))
}

func newLogger(cfg LogConfig) *zap.Logger {
	level := zap.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = zap.InfoLevel
		}
	}
	var sink zapcore.WriteSyncer
	if cfg.Filename != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxDays,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
		sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func GetGlobalLogger() *zap.Logger {
	return globalLogger.Load()
}

func Debug(msg string, fields ...zap.Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetGlobalLogger().Error(msg, fields...)
}

func Debugf(msg string, args ...interface{}) {
	GetGlobalLogger().Sugar().Debugf(msg, args...)
}

func Infof(msg string, args ...interface{}) {
	GetGlobalLogger().Sugar().Infof(msg, args...)
}

func Warnf(msg string, args ...interface{}) {
	GetGlobalLogger().Sugar().Warnf(msg, args...)
}

func Errorf(msg string, args ...interface{}) {
	GetGlobalLogger().Sugar().Errorf(msg, args...)
}
