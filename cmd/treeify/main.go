package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/treeify/internal/cli"
	"github.com/temirov/treeify/internal/utils"
)

// main is the entry point for the treeify command.
func main() {
	loggingLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(loggingLevel)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance, loggingLevel); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
