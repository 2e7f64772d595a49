package types

// UserOutput is the user-facing output surface handed to plugin hooks and
// the orchestration layer. Implementations live in pkg/ui; tests use a
// recording fake.
type UserOutput interface {
	// Info prints a neutral progress line
	Info(format string, args ...interface{})

	// Success prints a completed-step line
	Success(format string, args ...interface{})

	// Warning prints a non-fatal problem
	Warning(format string, args ...interface{})

	// Error prints a failure line
	Error(format string, args ...interface{})

	// Step prints a numbered or bulleted progress step
	Step(format string, args ...interface{})

	// Blank prints an empty separator line
	Blank()
}

// NopOutput discards everything. It is the default output surface of a
// RunContext built without one.
type NopOutput struct{}

func (NopOutput) Info(string, ...interface{})    {}
func (NopOutput) Success(string, ...interface{}) {}
func (NopOutput) Warning(string, ...interface{}) {}
func (NopOutput) Error(string, ...interface{})   {}
func (NopOutput) Step(string, ...interface{})    {}
func (NopOutput) Blank()                         {}

var _ UserOutput = NopOutput{}
