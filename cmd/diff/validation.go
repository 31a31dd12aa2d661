package diff

import "fmt"

// validateDiffArgs validates the arguments provided to the diff command.
func validateDiffArgs(options *DiffOptions) error {
	if options.CurrentFile == "" {
		return fmt.Errorf("the 'current' flag must be specified")
	}
	if options.PreviousFile == "" {
		return fmt.Errorf("the 'previous' flag must be specified")
	}
	if options.CurrentFile == options.PreviousFile {
		return fmt.Errorf("the 'current' and 'previous' flags must point to different reports")
	}
	return nil
}
