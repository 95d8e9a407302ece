package systemcodes

// Exit codes returned by the revq binary.
const (
	ErrorCodeGeneric       = 3
	ErrorCodeConfigError   = 4
	ErrorCodeNotRepository = 5
)
