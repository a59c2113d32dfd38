package logger

import (
	"fmt"
	"sync"

	glog "github.com/Laisky/go-utils/v5/log"
)

var (
	Logger      glog.Logger
	initLogOnce sync.Once
)

func init() {
	initLogger()
}

// initLogger creates the console logger at info level
func initLogger() {
	initLogOnce.Do(func() {
		var err error
		Logger, err = newLogger(glog.LevelInfo)
		if err != nil {
			panic(fmt.Sprintf("failed to create logger: %+v", err))
		}
	})
}

// newLogger writes to stderr so log lines never mix with response output
func newLogger(level glog.Level) (glog.Logger, error) {
	return glog.New(
		glog.WithName("apicli"),
		glog.WithLevel(level),
		glog.WithEncoding(glog.EncodingConsole),
		glog.WithOutputPaths([]string{"stderr"}),
	)
}

// SetDebug rebuilds the logger at debug level when enabled
func SetDebug(enabled bool) {
	if !enabled {
		return
	}
	lg, err := newLogger(glog.LevelDebug)
	if err != nil {
		Logger.Warn(fmt.Sprintf("failed to enable debug logging: %+v", err))
		return
	}
	Logger = lg
}
