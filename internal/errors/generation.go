package errors

import (
	stderrors "errors"
	"fmt"
)

// DiscoveryKind distinguishes the ways locating the library can fail
type DiscoveryKind int

const (
	DirectoryNotFound DiscoveryKind = iota
	LibraryNotInstalled
)

// String returns the string representation of the discovery kind
func (k DiscoveryKind) String() string {
	switch k {
	case DirectoryNotFound:
		return "DirectoryNotFound"
	case LibraryNotInstalled:
		return "LibraryNotInstalled"
	default:
		return "Unknown"
	}
}

// DiscoveryError is raised when the library or its constraints directory cannot be found
type DiscoveryError struct {
	*BaseError
	Kind    DiscoveryKind
	Path    string // directory that was looked up
	Package string // composer package name, when known
}

// NewDirectoryNotFoundError creates a discovery error for a missing directory
func NewDirectoryNotFoundError(path string) *DiscoveryError {
	err := &DiscoveryError{
		BaseError: New(DiscoveryErrorCode, fmt.Sprintf("directory '%s' does not exist", path)),
		Kind:      DirectoryNotFound,
		Path:      path,
	}
	err.WithContext("path", path)
	return err
}

// NewLibraryNotInstalledError creates a discovery error for a package composer does not know about
func NewLibraryNotInstalledError(pkg, vendorDir string, cause error) *DiscoveryError {
	err := &DiscoveryError{
		BaseError: New(DiscoveryErrorCode, fmt.Sprintf("package '%s' is not installed in '%s'", pkg, vendorDir)),
		Kind:      LibraryNotInstalled,
		Path:      vendorDir,
		Package:   pkg,
	}
	err.WithCause(cause).
		WithContext("package", pkg).
		WithContext("vendor_dir", vendorDir).
		WithSuggestions(
			fmt.Sprintf("Run 'composer require %s'", pkg),
			"Set library_path in fluentgen.toml to point at the library sources",
		)
	return err
}

// IntrospectionError is raised when a discovered class cannot be reflected
type IntrospectionError struct {
	*BaseError
	Class string
}

// NewIntrospectionError creates an introspection error for the given class
func NewIntrospectionError(class, reason string, cause error) *IntrospectionError {
	err := &IntrospectionError{
		BaseError: Wrap(IntrospectionErrorCode, fmt.Sprintf("cannot introspect class '%s': %s", class, reason), cause),
		Class:     class,
	}
	err.WithContext("class", class)
	return err
}

// SyntaxError is raised when a PHP source file cannot be parsed
type SyntaxError struct {
	*BaseError
}

// NewSyntaxError creates a syntax error at the given location
func NewSyntaxError(message string, loc SourceLocation) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message).WithLocation(loc),
	}
}

// FormattingError is raised when a default value has no literal representation
type FormattingError struct {
	*BaseError
	Value interface{}
}

// NewFormattingError creates a formatting error for the given value
func NewFormattingError(value interface{}, reason string) *FormattingError {
	return &FormattingError{
		BaseError: New(FormattingErrorCode, fmt.Sprintf("cannot format %T value as a literal: %s", value, reason)),
		Value:     value,
	}
}

// WriteError is raised when the output artifact cannot be created or written
type WriteError struct {
	*BaseError
	Path string
}

// NewWriteError creates a write error for the given path
func NewWriteError(path, operation string, cause error) *WriteError {
	err := &WriteError{
		BaseError: Wrap(WriteErrorCode, fmt.Sprintf("failed to %s '%s'", operation, path), cause),
		Path:      path,
	}
	err.WithContext("operation", operation).WithContext("path", path)
	return err
}

// ConfigurationError is raised for invalid or unreadable configuration
type ConfigurationError struct {
	*BaseError
	Key string
}

// NewConfigurationError creates a configuration error for the given key
func NewConfigurationError(key, message string) *ConfigurationError {
	err := &ConfigurationError{
		BaseError: New(ConfigurationErrorCode, message),
		Key:       key,
	}
	if key != "" {
		err.WithContext("key", key)
	}
	return err
}

// IsDirectoryNotFound reports whether err is a DirectoryNotFound discovery error
func IsDirectoryNotFound(err error) bool {
	var d *DiscoveryError
	return stderrors.As(err, &d) && d.Kind == DirectoryNotFound
}

// IsLibraryNotInstalled reports whether err is a LibraryNotInstalled discovery error
func IsLibraryNotInstalled(err error) bool {
	var d *DiscoveryError
	return stderrors.As(err, &d) && d.Kind == LibraryNotInstalled
}

// CodeOf returns the error code of the first GeneratorError in the chain
func CodeOf(err error) ErrorCode {
	var g GeneratorError
	if stderrors.As(err, &g) {
		return g.ErrorCode()
	}
	return UnknownErrorCode
}
