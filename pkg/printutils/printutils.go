package printutils

import "github.com/fatih/color"

var (
	// ErrFprintf is a wrapper for printing colored errors.
	ErrFprintf = color.New(color.FgRed).FprintfFunc()
	// SuccessFprintf is a wrapper for printing colored successes.
	SuccessFprintf = color.New(color.FgGreen).FprintfFunc()
	// NeutralFprintf is a wrapper for printing neutral information.
	NeutralFprintf = color.New(color.FgWhite).FprintfFunc()
	// HighlightSprint is a wrapper for highlighting values with color.
	HighlightSprint = color.New(color.FgYellow).SprintFunc()
	// HighlightSprintf is a wrapper for highlighting formatted values with color.
	HighlightSprintf = color.New(color.FgYellow).SprintfFunc()
)
