package errors

// Convenience functions for the fatal conditions of a generation run.

// Configuration errors

func ConfigurationNotFound(kind, path string) *DocGraphError {
	return New(CategoryConfig, SeverityFatal, kind+" not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *DocGraphError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ConfigInvalid(path string, cause error) *DocGraphError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

// Site index errors

func MalformedIndex(reason string) *DocGraphError {
	return New(CategoryIndex, SeverityFatal, "malformed site index").
		WithContext("reason", reason)
}

func MalformedIndexFile(path string, cause error) *DocGraphError {
	return Wrap(cause, CategoryIndex, SeverityFatal, "malformed site index").
		WithContext("path", path)
}

// Document tree errors

func UnreadableDocument(path string, cause error) *DocGraphError {
	return Wrap(cause, CategoryDocument, SeverityFatal, "document cannot be read").
		WithContext("path", path)
}

// Graph validation errors

func AmbiguousImageDestination(dest string, sources ...string) *DocGraphError {
	return New(CategoryValidation, SeverityFatal, "image sources share one destination").
		WithContext("destination", dest).
		WithContext("sources", sources)
}

func DuplicateOutput(output string, rules ...string) *DocGraphError {
	return New(CategoryValidation, SeverityFatal, "output claimed by more than one edge").
		WithContext("output", output).
		WithContext("rules", rules)
}

// Output errors

func OutputWriteError(path string, cause error) *DocGraphError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "build file cannot be written").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *DocGraphError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
