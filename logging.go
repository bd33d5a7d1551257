package folio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

func parseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, nil
	case "info", "":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("folio: unknown log level %q", s)
}

// setupLogging applies the configured level to the Echo logger and, when a
// log file is set, tees output into a rotated file.
func (a *App) setupLogging() error {
	lvl, err := parseLevel(a.Config.LogLevel)
	if err != nil {
		return err
	}
	logger := a.Echo.Logger
	logger.SetPrefix("folio")
	logger.SetLevel(lvl)

	if a.Config.LogFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.Config.LogFile), 0o755); err != nil {
		return fmt.Errorf("folio: create log directory: %w", err)
	}
	writer := &lumberjack.Logger{
		Filename:   a.Config.LogFile,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, writer))
	a.logCloser = writer
	return nil
}
