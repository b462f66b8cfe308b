package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestCankitError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CankitError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestCankitError_WithContext(t *testing.T) {
	err := BuildFailed("compile-to-binary", fmt.Errorf("exit status 1"))

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["stage"] != "compile-to-binary" {
		t.Errorf("Context[stage] = %v, want compile-to-binary", err.Context["stage"])
	}
}

func TestCankitError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, CategoryBuild, SeverityFatal, "build failed")

	if !stdErrors.Is(err, cause) {
		t.Error("wrapped error should match errors.Is on its cause")
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	buildErr := New(CategoryBuild, SeverityError, "build error")
	standardErr := fmt.Errorf("standard error")

	if !IsCategory(configErr, CategoryConfig) {
		t.Error("config error should match CategoryConfig")
	}
	if IsCategory(buildErr, CategoryConfig) {
		t.Error("build error should not match CategoryConfig")
	}
	if IsCategory(standardErr, CategoryConfig) {
		t.Error("standard error should not match any category")
	}
}

func TestExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", ValidationFailed("canister", "missing main"), 2},
		{"config", ConfigNotFound("cankit.yaml"), 7},
		{"toolchain", ToolchainNotInstalled("0.5.0"), 9},
		{"build", BuildFailed("compile-to-binary", fmt.Errorf("boom")), 11},
		{"watch", WatchRegistrationError("main.src", fmt.Errorf("boom")), 12},
		{"plain", fmt.Errorf("boom"), 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(test.err); got != test.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, test.want)
			}
		})
	}
}
