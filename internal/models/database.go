package models

// DatabaseSpec describes one database to provision. Sizes are whole
// megabytes, already normalized from literals at the boundary. Optional
// settings are pointers: absent means "use the instance default", which
// keeps required-vs-optional visible in the type instead of behind
// existence checks at point of use.
type DatabaseSpec struct {
	Name          string
	DataSizeMB    int64
	LogSizeMB     int64
	Owner         string
	Collation     string
	QueryStore    bool
	DataPath      string
	LogPath       string
	GrowthMB      *int64
	PerFileSizeMB *int64 // fixed per-file size; when nil the planner splits evenly
}

// FilePlan is the computed physical layout for a database: how many equal
// data files and how large each one is.
type FilePlan struct {
	FileCount     int
	PerFileSizeMB int64
	LogSizeMB     int64
}

// TotalDataMB returns the space the data files will actually allocate,
// which may exceed the requested size because files are equal-sized.
func (p FilePlan) TotalDataMB() int64 {
	return int64(p.FileCount) * p.PerFileSizeMB
}

// StorageVolume is one mount point or drive on the target instance with its
// space figures, as reported by sys.dm_os_volume_stats.
type StorageVolume struct {
	MountPoint  string
	Label       string
	TotalMB     int64
	AvailableMB int64
}
