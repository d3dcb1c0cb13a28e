package app

import (
	"strings"

	"example/engine-eval/app/config"

	"github.com/sirupsen/logrus"
)

// InitLogging applies LOG_STYLE / LOG_LEVEL to the process-wide logger.
// Unknown values keep the logrus defaults.
func InitLogging(cfg config.LogConfig) {
	if strings.EqualFold(cfg.Style, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if cfg.Level != "" {
		if lvl, err := logrus.ParseLevel(cfg.Level); err == nil {
			logrus.SetLevel(lvl)
		}
	}
}
