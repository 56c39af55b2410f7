package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nixenos/czytaj/internal/engine"
)

const (
	exitInternal     = 1
	exitInvalidInput = 2
	exitNotFound     = 3
	exitConflict     = 4
	exitUnavailable  = 5
)

const kindInvalidInput = "invalid_input"

// errUsage marks mistakes in the command line itself: bad flags, argument
// counts and output formats.
var errUsage = errors.New("invalid usage")

func errorKind(err error) string {
	if errors.Is(err, errUsage) {
		return kindInvalidInput
	}
	return engine.Kind(err)
}

func ErrorExitCode(err error) int {
	if err == nil {
		return 0
	}
	kind := errorKind(err)
	switch {
	case kind == kindInvalidInput, kind == engine.KindInvalidURL, kind == engine.KindInvalidValue:
		return exitInvalidInput
	case kind == engine.KindNotFound:
		return exitNotFound
	case kind == engine.KindAlreadyExists, kind == engine.KindRefreshInProgress:
		return exitConflict
	case strings.HasPrefix(kind, "fetch_error/"), strings.HasPrefix(kind, "parse_error/"):
		return exitUnavailable
	default:
		return exitInternal
	}
}

func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error [%s]: %v", errorKind(err), err)
}

func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}
