package logs

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 定义日志级别常量（数值越大，级别越高）
const (
	LevelTrace   = iota // 0（最低，最详细）
	LevelDebug          // 1
	LevelVerbose        // 2
	LevelInfo           // 3
	LevelWarning        // 4
	LevelError          // 5（最高，最严重）
)

var (
	mu       sync.RWMutex
	logLevel = LevelInfo
	// 例如节点名，拼在每行日志前
	prefix string
)

// 全局 Logger 实例
var logger *Logger

// Logger 结构体
type Logger struct {
	traceLogger   *log.Logger
	debugLogger   *log.Logger
	verboseLogger *log.Logger
	infoLogger    *log.Logger
	warnLogger    *log.Logger
	errorLogger   *log.Logger
}

func newLogger(out, errOut io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
	return &Logger{
		traceLogger:   log.New(out, "[TRACE]   ", flags),
		debugLogger:   log.New(out, "[DEBUG]   ", flags),
		verboseLogger: log.New(out, "[VERBOSE] ", flags),
		infoLogger:    log.New(out, "[INFO]    ", flags),
		warnLogger:    log.New(out, "[WARN]    ", flags),
		errorLogger:   log.New(errOut, "[ERROR]   ", flags),
	}
}

// 初始化全局 Logger 实例
func init() {
	logger = newLogger(os.Stdout, os.Stderr)
}

// ParseLevel 解析配置里的级别名
func ParseLevel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "verbose":
		return LevelVerbose, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel 设置全局日志级别
func SetLevel(level int) {
	mu.Lock()
	defer mu.Unlock()
	logLevel = level
}

// SetPrefix 设置每行日志的前缀
func SetPrefix(p string) {
	mu.Lock()
	defer mu.Unlock()
	prefix = p
}

// SetOutput 所有级别都写到 w
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, w)
}

// FileOptions 滚动日志文件参数
type FileOptions struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// SetFile 输出到按大小滚动的日志文件
func SetFile(opts FileOptions) io.Closer {
	rotate := &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
		Compress:   opts.Compress,
	}
	SetOutput(rotate)
	return rotate
}

func output(level int, l func(*Logger) *log.Logger, format string, v ...interface{}) {
	mu.RLock()
	enabled := logLevel <= level
	lg, p := logger, prefix
	mu.RUnlock()
	if !enabled {
		return
	}
	if p != "" {
		format = p + " " + format
	}
	_ = l(lg).Output(3, fmt.Sprintf(format, v...))
}

// 包级别的日志方法
func Trace(format string, v ...interface{}) {
	output(LevelTrace, func(l *Logger) *log.Logger { return l.traceLogger }, format, v...)
}

func Debug(format string, v ...interface{}) {
	output(LevelDebug, func(l *Logger) *log.Logger { return l.debugLogger }, format, v...)
}

func Verbose(format string, v ...interface{}) {
	output(LevelVerbose, func(l *Logger) *log.Logger { return l.verboseLogger }, format, v...)
}

func Info(format string, v ...interface{}) {
	output(LevelInfo, func(l *Logger) *log.Logger { return l.infoLogger }, format, v...)
}

func Warn(format string, v ...interface{}) {
	output(LevelWarning, func(l *Logger) *log.Logger { return l.warnLogger }, format, v...)
}

func Error(format string, v ...interface{}) {
	output(LevelError, func(l *Logger) *log.Logger { return l.errorLogger }, format, v...)
}
