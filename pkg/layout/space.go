package layout

// Volume is a storage location with its free-space figures, as reported by
// the disk-query collaborator. The planner only consumes these, it never
// measures disk space itself.
type Volume struct {
	Name        string
	AvailableMB int64
	TotalMB     int64
}

// Requirements names the volumes a database's files land on and the raw
// sizes to place there, before the safety margin is applied.
type Requirements struct {
	DataVolume string
	DataMB     int64
	LogVolume  string
	LogMB      int64
}

// Check is the sufficiency verdict for one volume.
type Check struct {
	Volume      string
	RequiredMB  int64
	AvailableMB int64
	Sufficient  bool
}

// RequiredSpace returns the minimum free space in megabytes for a database's
// data files: fileCount files of perFileMB each, inflated by marginPercent
// and rounded up to the next whole megabyte.
func RequiredSpace(fileCount int, perFileMB int64, marginPercent int) (int64, error) {
	if fileCount < 1 {
		return 0, &InvalidFileCountError{FileCount: fileCount}
	}
	return withMargin(int64(fileCount)*perFileMB, marginPercent)
}

// RequiredLogSpace returns the minimum free space in megabytes for the
// transaction log, inflated by marginPercent and rounded up.
func RequiredLogSpace(logMB int64, marginPercent int) (int64, error) {
	return withMargin(logMB, marginPercent)
}

// IsSufficient reports whether a volume's available space covers a requirement.
func IsSufficient(requiredMB, availableMB int64) bool {
	return availableMB >= requiredMB
}

// Evaluate applies the sufficiency policy to a set of requirements whose
// margins have already been applied. Distinct data and log volumes are
// checked independently; a shared volume is checked against the sum of both
// requirements. A requirement naming an unknown volume fails with
// VolumeNotFoundError.
func Evaluate(req Requirements, volumes map[string]Volume) ([]Check, error) {
	if req.DataVolume == req.LogVolume {
		vol, ok := volumes[req.DataVolume]
		if !ok {
			return nil, &VolumeNotFoundError{Volume: req.DataVolume}
		}
		combined := req.DataMB + req.LogMB
		return []Check{{
			Volume:      vol.Name,
			RequiredMB:  combined,
			AvailableMB: vol.AvailableMB,
			Sufficient:  IsSufficient(combined, vol.AvailableMB),
		}}, nil
	}

	checks := make([]Check, 0, 2)
	for _, part := range []struct {
		volume string
		mb     int64
	}{
		{req.DataVolume, req.DataMB},
		{req.LogVolume, req.LogMB},
	} {
		vol, ok := volumes[part.volume]
		if !ok {
			return nil, &VolumeNotFoundError{Volume: part.volume}
		}
		checks = append(checks, Check{
			Volume:      vol.Name,
			RequiredMB:  part.mb,
			AvailableMB: vol.AvailableMB,
			Sufficient:  IsSufficient(part.mb, vol.AvailableMB),
		})
	}
	return checks, nil
}

// Sufficient reports whether every check passed.
func Sufficient(checks []Check) bool {
	for _, c := range checks {
		if !c.Sufficient {
			return false
		}
	}
	return true
}

// withMargin applies a safety margin percentage with ceiling rounding using
// integer arithmetic only: ceil(base * (100 + margin) / 100).
func withMargin(baseMB int64, marginPercent int) (int64, error) {
	if marginPercent < 0 || marginPercent > 100 {
		return 0, &InvalidMarginError{MarginPercent: marginPercent}
	}
	return ceilDiv(baseMB*int64(100+marginPercent), 100), nil
}
