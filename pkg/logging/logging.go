package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	debugLog *log.Logger
	mu       sync.Mutex
)

// Init configures leveled logging to stdout/stderr plus a size-rotated file
// under logDir.
func Init(logDir string) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "api.log"),
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	outWriter := io.MultiWriter(os.Stdout, rotated)
	errWriter := io.MultiWriter(os.Stderr, rotated)

	infoLog = log.New(outWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(outWriter, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(errWriter, "ERROR: ", log.Ldate|log.Ltime)
	debugLog = log.New(outWriter, "DEBUG: ", log.Ldate|log.Ltime)

	// Route Go's default logger through the same writer.
	log.SetOutput(outWriter)
}

func callerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name()
}

func write(l *log.Logger, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		log.Printf(format, v...)
		return
	}
	l.Printf("[%s] %s", callerInfo(), fmt.Sprintf(format, v...))
}

func Info(format string, v ...interface{})  { write(infoLog, format, v...) }
func Warn(format string, v ...interface{})  { write(warnLog, format, v...) }
func Error(format string, v ...interface{}) { write(errorLog, format, v...) }
func Debug(format string, v ...interface{}) { write(debugLog, format, v...) }
