package parser

import "abapsim/errors"

// Check validates that every non-skipped line ends with '.', ',' or ':'.
// The result lists one error per offending line in line order; it is nil
// when the source is clean.
func Check(src string) errors.SyntaxErrors {
	return CheckLines(Segment(src))
}

// CheckLines is Check over already segmented lines
func CheckLines(lines []Line) errors.SyntaxErrors {
	var errs errors.SyntaxErrors
	for _, line := range lines {
		if line.Skipped() || line.Terminator() != 0 {
			continue
		}
		errs = append(errs, errors.SyntaxError{
			Line:    line.Number,
			Message: errors.MessageMissingTerminator,
		})
	}
	return errs
}
