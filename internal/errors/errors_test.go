package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BaseError
		expected string
	}{
		{name: "message only", err: New(WriteErrorCode, "failed"), expected: "failed"},
		{name: "with location", err: New(SyntaxErrorCode, "unexpected '}'").WithLocation(SourceLocation{File: "A.php", Line: 3}), expected: "A.php:3: unexpected '}'"},
		{name: "with cause", err: Wrap(DiscoveryErrorCode, "cannot read", stderrors.New("denied")), expected: "cannot read: denied"},
		{name: "formatted", err: Newf(ConfigurationErrorCode, "bad %s", "key"), expected: "bad key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "A.php", SourceLocation{File: "A.php"}.String())
	assert.Equal(t, "A.php:2:7", SourceLocation{File: "A.php", Line: 2, Column: 7}.String())
}

func TestDiscoveryErrors(t *testing.T) {
	notFound := NewDirectoryNotFoundError("vendor/symfony/validator/Constraints")
	assert.True(t, IsDirectoryNotFound(notFound))
	assert.False(t, IsLibraryNotInstalled(notFound))
	assert.Equal(t, "directory 'vendor/symfony/validator/Constraints' does not exist", notFound.Error())

	cause := stderrors.New("no installed.json")
	missing := fmt.Errorf("setup: %w", NewLibraryNotInstalledError("symfony/validator", "vendor", cause))
	assert.True(t, IsLibraryNotInstalled(missing))
	assert.ErrorIs(t, missing, cause)
	assert.Equal(t, DiscoveryErrorCode, CodeOf(missing))

	var discovery *DiscoveryError
	require.ErrorAs(t, missing, &discovery)
	assert.Len(t, discovery.Suggestions(), 2)
}

func TestTypedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  GeneratorError
		code ErrorCode
	}{
		{name: "introspection", err: NewIntrospectionError(`App\Rule`, "class not found", nil), code: IntrospectionErrorCode},
		{name: "syntax", err: NewSyntaxError("bad", SourceLocation{File: "x.php"}), code: SyntaxErrorCode},
		{name: "formatting", err: NewFormattingError(struct{}{}, "unsupported"), code: FormattingErrorCode},
		{name: "write", err: NewWriteError("src/I.php", "create", stderrors.New("denied")), code: WriteErrorCode},
		{name: "configuration", err: NewConfigurationError("namespace", "cannot be empty"), code: ConfigurationErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.ErrorCode())
			assert.Equal(t, tt.code, CodeOf(fmt.Errorf("wrapped: %w", tt.err)))
			assert.NotEqual(t, "UnknownError", tt.code.String())
		})
	}

	assert.Equal(t, UnknownErrorCode, CodeOf(stderrors.New("plain")))
}

func TestMultipleErrors(t *testing.T) {
	collected := NewMultipleErrors()
	assert.NoError(t, collected.ErrorOrNil())

	collected.Add(NewConfigurationError("namespace", "cannot be empty"))
	assert.Equal(t, "cannot be empty", collected.Error())

	collected.Add(NewConfigurationError("output_dir", "cannot be empty"))
	assert.Equal(t, "multiple errors (2 total):\n  1. cannot be empty\n  2. cannot be empty", collected.Error())

	var config *ConfigurationError
	require.ErrorAs(t, collected.ErrorOrNil(), &config)
	assert.Equal(t, "namespace", config.Key)
}
