// darktable - non-destructive photo editing
package main

import (
	"flag"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"github.com/maxime-henry/darktable/internal/config"
	"github.com/maxime-henry/darktable/internal/gui"
)

const appID = "org.darktable.darktable"

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	configPath := flag.String("config", "", "Configuration file (defaults to the per-user location)")
	scriptPath := flag.String("script", "", "Lua script to run after startup")
	flag.Parse()

	logger := initLogger(*debugMode)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Warn("Falling back to default configuration")
		cfg = config.Default()
	}
	if *debugMode {
		cfg.Debug = true
	}
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if *scriptPath != "" {
		cfg.Script.Path = *scriptPath
	}

	logger.WithFields(logrus.Fields{
		"debug":  cfg.Debug,
		"script": cfg.Script.Path,
	}).Info("Starting darktable")

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(theme.ColorPaletteIcon())

	mainApp := gui.NewApplication(fyneApp, logger, cfg)
	mainApp.ShowAndRun()

	logger.Info("Application shutting down")
	os.Exit(0)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// initLogger initializes the logger with the appropriate level and format.
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
