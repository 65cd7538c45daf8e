// Package layout plans the physical file layout of a SQL Server database and
// the disk space it needs.
//
// The package is the pure-computation half of provisioning: callers feed it
// sizes already normalized to megabytes (see pkg/sizeunit) and compare its
// outputs against free-space figures obtained elsewhere (pkg/mssql queries
// sys.dm_os_volume_stats). Nothing here touches a server or mutates state,
// so every function is safe to call concurrently.
//
// # Planning
//
// PlanFileCount decides how many equally-sized data files a database should
// spread across, given a per-file size ceiling:
//
//	count = clamp(ceil(expectedMB / thresholdMB), 1, MaxDataFiles)
//
// PlanPerFileSize splits an expected total evenly across a file count using
// ceiling division, so the allocated total may slightly exceed the expected
// size. That over-provisioning is intentional: all files stay equal and the
// expected size is always covered.
//
// # Space requirements
//
// RequiredSpace and RequiredLogSpace inflate a raw requirement by a safety
// margin percentage and round up to the next whole megabyte. Evaluate applies
// the sufficiency policy across volumes:
//
//   - data and log on distinct volumes: each volume is checked against its
//     own requirement independently;
//   - data and log on the same volume: the volume is checked against the SUM
//     of both requirements. Checking per-requirement here would undercount.
//
// A requirement naming a volume the caller did not supply fails with
// VolumeNotFoundError rather than being skipped.
package layout
