package store

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/orghealth/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Health Updates: %d\n", status.TotalUpdates)
	if status.TotalUpdates > 0 {
		_, _ = fmt.Fprintf(w, "Latest Update: %s\n", schema.FormatDay(status.LatestUpdateDate))
		_, _ = fmt.Fprintf(w, "Oldest Update: %s\n", schema.FormatDay(status.OldestUpdateDate))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
