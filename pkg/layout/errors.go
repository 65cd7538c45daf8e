package layout

import "fmt"

// InvalidThresholdError reports a per-file size ceiling of zero or less.
type InvalidThresholdError struct {
	ThresholdMB int64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("per-file threshold must be positive, got %dMB", e.ThresholdMB)
}

// InvalidFileCountError reports a file count below 1 used as a divisor.
type InvalidFileCountError struct {
	FileCount int
}

func (e *InvalidFileCountError) Error() string {
	return fmt.Sprintf("file count must be at least 1, got %d", e.FileCount)
}

// InvalidMarginError reports a safety margin outside [0,100] percent.
type InvalidMarginError struct {
	MarginPercent int
}

func (e *InvalidMarginError) Error() string {
	return fmt.Sprintf("safety margin must be between 0 and 100 percent, got %d", e.MarginPercent)
}

// VolumeNotFoundError reports a requirement naming a volume for which the
// caller supplied no free-space figure.
type VolumeNotFoundError struct {
	Volume string
}

func (e *VolumeNotFoundError) Error() string {
	return fmt.Sprintf("no free-space figure for volume %q", e.Volume)
}

// IsVolumeNotFound returns true if err reports a missing volume.
func IsVolumeNotFound(err error) bool {
	_, ok := err.(*VolumeNotFoundError)
	return ok
}
