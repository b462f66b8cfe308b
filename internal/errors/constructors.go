package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *CankitError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *CankitError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Toolchain errors

func ToolchainNotInstalled(version string) *CankitError {
	return New(CategoryToolchain, SeverityFatal, "toolchain version not installed").
		WithContext("version", version)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *CankitError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func OutputDirError(path string, cause error) *CankitError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "cannot create output directory").
		WithContext("path", path)
}

// Watch errors

func WatchRegistrationError(path string, cause error) *CankitError {
	return Wrap(cause, CategoryWatch, SeverityFatal, "cannot watch file").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *CankitError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
