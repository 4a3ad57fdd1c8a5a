package utils

const (
	// ApplicationName is the binary and configuration namespace.
	ApplicationName = "treeify"
	// ConfigFileName is the name of the global configuration file inside GlobalConfigDirectoryName.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = "." + ApplicationName + ".yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding ConfigFileName.
	GlobalConfigDirectoryName = "." + ApplicationName
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// LoggerInitializationFailedMessageFormat reports a failure to build the application logger.
const LoggerInitializationFailedMessageFormat = "initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes the fatal log entry written when a command fails.
const ApplicationExecutionFailedMessage = "treeify failed"
