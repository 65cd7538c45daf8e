package mssql

import (
	"context"
	"fmt"

	"github.com/dbforge/mssql-provision-agent/internal/models"
)

// queryVolumeStats lists every volume hosting at least one database file,
// with sizes reduced to whole megabytes server-side.
const queryVolumeStats = `
	SELECT DISTINCT
		vs.volume_mount_point,
		ISNULL(vs.logical_volume_name, ''),
		vs.total_bytes / 1048576,
		vs.available_bytes / 1048576
	FROM sys.master_files AS mf
	CROSS APPLY sys.dm_os_volume_stats(mf.database_id, mf.file_id) AS vs`

// QueryVolumes returns the storage volumes visible to the instance. Volumes
// holding no database files are not reported; a plan targeting one of those
// fails the space check as location-not-found, which is the safe direction.
func (c *Client) QueryVolumes(ctx context.Context) ([]models.StorageVolume, error) {
	rows, err := c.db.QueryContext(ctx, queryVolumeStats)
	if err != nil {
		return nil, fmt.Errorf("failed to query volume stats: %w", err)
	}
	defer rows.Close()

	var volumes []models.StorageVolume
	for rows.Next() {
		var v models.StorageVolume
		if err := rows.Scan(&v.MountPoint, &v.Label, &v.TotalMB, &v.AvailableMB); err != nil {
			return nil, fmt.Errorf("failed to scan volume stats: %w", err)
		}
		volumes = append(volumes, v)
	}
	return volumes, rows.Err()
}
