package layout

// MaxDataFiles is the ceiling on parallel data files per database. Spreading
// a database across more files than this stops paying off for the
// proportional-fill algorithm, so larger raw counts are capped, not rejected.
const MaxDataFiles = 8

// PlanFileCount returns how many equally-sized data files should back a
// database of the expected total size, given a per-file size ceiling.
// Both sizes are whole megabytes. The result is always in [1, MaxDataFiles].
func PlanFileCount(expectedMB, thresholdMB int64) (int, error) {
	if thresholdMB <= 0 {
		return 0, &InvalidThresholdError{ThresholdMB: thresholdMB}
	}

	raw := ceilDiv(expectedMB, thresholdMB)
	if raw < 1 {
		return 1, nil
	}
	if raw > MaxDataFiles {
		return MaxDataFiles, nil
	}
	return int(raw), nil
}

// PlanPerFileSize splits an expected total size evenly across fileCount
// files, rounding up so the files always cover the total.
func PlanPerFileSize(expectedMB int64, fileCount int) (int64, error) {
	if fileCount < 1 {
		return 0, &InvalidFileCountError{FileCount: fileCount}
	}
	return ceilDiv(expectedMB, int64(fileCount)), nil
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
