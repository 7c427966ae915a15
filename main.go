package main

import (
	"fmt"
	"os"

	"redirectly/cmd"
	"redirectly/config"
	"redirectly/logger"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	paths := config.GetDefaultConfigPaths()
	if err := logger.InitGlobalLoggers(paths.LogPathApp, paths.LogPathProxy, paths.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize default global loggers: %v\n", err)
		return 1
	}
	defer logger.CloseLogFiles()

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "redirectly: panic: %v\n", r)
			code = 2
		}
	}()

	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
