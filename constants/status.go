package constants

// Outcome is the result of ingesting one document in a batch.
type Outcome string

// Printed verbatim at the start of each batch status line.
const (
	OutcomeOK      Outcome = "OK"
	OutcomeTimeout Outcome = "TIMEOUT"
	OutcomeFailed  Outcome = "FAIL"
)

// Process exit codes of the command-line tools.
const (
	ExitOK          = 0
	ExitUsage       = 1
	ExitFailures    = 2
	ExitInterrupted = 130
)
