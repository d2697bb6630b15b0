package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/server"
)

// setupLogging applies the configured level to every package logger and
// attaches the rotating file hook when a log file is configured
func setupLogging(config Config) error {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	var hook logrus.Hook
	if config.LogFile != "" {
		hook, err = rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   config.LogFile,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
	}

	for _, logger := range []*logrus.Logger{log, game.Log, server.Log} {
		logger.SetLevel(level)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if hook != nil {
			logger.AddHook(hook)
		}
	}
	return nil
}
