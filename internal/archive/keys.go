package archive

import (
	"fmt"
	"path"
	"time"
)

// BuildArchiveKey returns the object key for a history batch uploaded at ts,
// relative to the store prefix. Keys partition by UTC date so downstream
// scanners can prune on the date= directory.
func BuildArchiveKey(ts time.Time) string {
	ts = ts.UTC()
	return path.Join(
		fmt.Sprintf("date=%04d-%02d-%02d", ts.Year(), ts.Month(), ts.Day()),
		fmt.Sprintf("part-%d.parquet", ts.UnixNano()),
	)
}
