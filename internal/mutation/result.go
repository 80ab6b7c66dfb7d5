package mutation

// Result is the outcome of Run. Errors is non-nil only when Success is false;
// ReturnValue holds whatever the execute function returned.
type Result struct {
	Success     bool
	Errors      Errors
	ReturnValue any
}

// ValidationResult is the outcome of Validate. Errors is non-nil only when
// IsValid is false.
type ValidationResult struct {
	IsValid bool
	Errors  Errors
}
