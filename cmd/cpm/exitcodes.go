package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no library, invalid paths, backup not configured)
	ExitDataError   = 3 // Data error (malformed input, validation failure, corrupt snapshot)
	ExitNotFound    = 4 // No paper with the given id
	ExitDuplicate   = 5 // Paper already in the catalog
)
