// Copyright The libvcmmd Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

// Level describes the severity of a log message.
type Level int

const (
	// LevelDebug is the severity for debug messages.
	LevelDebug Level = iota
	// LevelInfo is the severity for informational messages.
	LevelInfo
	// LevelWarn is the severity for warnings.
	LevelWarn
	// LevelError is the severity for errors.
	LevelError

	// DefaultLevel is the default logging severity level.
	DefaultLevel = LevelInfo
)

// Logger is a source-tagged logging instance.
type Logger interface {
	// Debug formats and emits a debug message, if debugging is
	// enabled for the source.
	Debug(format string, args ...interface{})
	// Info formats and emits an informational message.
	Info(format string, args ...interface{})
	// Warn formats and emits a warning message.
	Warn(format string, args ...interface{})
	// Error formats and emits an error message.
	Error(format string, args ...interface{})
	// Fatal formats and emits a fatal error, then exits the process.
	Fatal(format string, args ...interface{})

	// Debugf, Infof, Warnf, and Errorf are aliases for the
	// corresponding severity-specific functions above.
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// DebugEnabled returns true if debug messages are enabled
	// for the source.
	DebugEnabled() bool
	// EnableDebug enables or disables debug messages for the source,
	// returning the previous setting.
	EnableDebug(enabled bool) bool
	// Source returns the source of the logger.
	Source() string
}

// logging is our set of loggers and their shared state.
type logging struct {
	sync.RWMutex
	level   Level
	loggers map[string]*logger
	debug   srcmap
}

// logger implements Logger for a single source.
type logger struct {
	source string
	debug  bool
}

const (
	// defaultSource is the source of the default Logger.
	defaultSource = "default"
	// klog call depth which attributes messages to our caller
	depth = 2
)

var (
	log = &logging{
		level:   DefaultLevel,
		loggers: make(map[string]*logger),
		debug:   make(srcmap),
	}
)

// Get returns the Logger for the given source, creating it if necessary.
func Get(source string) Logger {
	log.Lock()
	defer log.Unlock()
	return log.get(source)
}

// Default returns the default Logger.
func Default() Logger {
	return Get(defaultSource)
}

// SetLevel sets the least severity of messages to pass through.
func SetLevel(level Level) {
	log.Lock()
	defer log.Unlock()
	log.level = level
}

// EnableDebug enables or disables debugging for the given source,
// returning the previous setting. The source '*' applies to every
// source, existing or future, without an explicit setting of its own.
func EnableDebug(source string, enabled bool) bool {
	log.Lock()
	defer log.Unlock()

	previous := log.get(source).debug
	log.debug[source] = enabled
	for src, l := range log.loggers {
		l.debug = log.debugEnabled(src)
	}

	return previous
}

func (log *logging) get(source string) *logger {
	if l, ok := log.loggers[source]; ok {
		return l
	}

	l := &logger{
		source: source,
		debug:  log.debugEnabled(source),
	}
	log.loggers[source] = l

	return l
}

func (log *logging) debugEnabled(source string) bool {
	if enabled, ok := log.debug[source]; ok {
		return enabled
	}
	if enabled, ok := log.debug["*"]; ok {
		return enabled
	}
	return false
}

func (log *logging) setDbgMap(m srcmap) {
	log.debug = m
	for source, l := range log.loggers {
		l.debug = log.debugEnabled(source)
	}
}

func (l *logger) prefix(format string) string {
	return "[" + l.source + "] " + format
}

func (l *logger) Debug(format string, args ...interface{}) {
	log.RLock()
	defer log.RUnlock()
	if !l.debug {
		return
	}
	klog.InfoDepth(depth, fmt.Sprintf(l.prefix("D: "+format), args...))
}

func (l *logger) Info(format string, args ...interface{}) {
	log.RLock()
	defer log.RUnlock()
	if log.level > LevelInfo {
		return
	}
	klog.InfoDepth(depth, fmt.Sprintf(l.prefix(format), args...))
}

func (l *logger) Warn(format string, args ...interface{}) {
	log.RLock()
	defer log.RUnlock()
	if log.level > LevelWarn {
		return
	}
	klog.WarningDepth(depth, fmt.Sprintf(l.prefix(format), args...))
}

func (l *logger) Error(format string, args ...interface{}) {
	log.RLock()
	defer log.RUnlock()
	klog.ErrorDepth(depth, fmt.Sprintf(l.prefix(format), args...))
}

func (l *logger) Fatal(format string, args ...interface{}) {
	klog.ExitDepth(depth, fmt.Sprintf(l.prefix(format), args...))
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.Debug(format, args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.Info(format, args...)
}

func (l *logger) Warnf(format string, args ...interface{}) {
	l.Warn(format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.Error(format, args...)
}

func (l *logger) DebugEnabled() bool {
	return l.debug
}

func (l *logger) EnableDebug(enabled bool) bool {
	return EnableDebug(l.source, enabled)
}

func (l *logger) Source() string {
	return l.source
}
