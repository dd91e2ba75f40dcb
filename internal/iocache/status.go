package iocache

import (
	"fmt"
	"sort"
	"time"

	"github.com/cardiorisk/cardiorisk/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintModelStoreStatus prints model registry status information.
func PrintModelStoreStatus(status schema.ModelStoreStatus) {
	fmt.Printf("Model Registry Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Models: %d\n", status.TotalModels)
	if status.TotalModels > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintModelList prints registered models, one per line.
func PrintModelList(entries []schema.ModelEntry) {
	if len(entries) == 0 {
		fmt.Println("No registered models")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s\tmodel_id=%s\tversion=%d\tsaved=%s\tsize=%d bytes\n",
			e.Name, e.ModelID, e.Version, time.Unix(e.Timestamp, 0).Format(statusTimeLayout), e.Size)
	}
}

// PrintHistoryStatus prints assessment history status information.
func PrintHistoryStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Assessments: %d\n", status.TotalAssessments)
	if status.TotalAssessments > 0 {
		fmt.Printf("Last Assessment ID: %s\n", status.LastAssessmentID)
		fmt.Printf("Last Assessment: %s\n", status.LastAssessedAt.Format(statusTimeLayout))
		fmt.Printf("Oldest Assessment: %s\n", status.OldestAssessedAt.Format(statusTimeLayout))
		fmt.Println("Tiers:")
		for _, tier := range schema.AllRiskTiers {
			fmt.Printf("  %s: %d\n", tier, status.TierCounts[tier])
		}
	}
	if status.SchemaVersion > 0 {
		fmt.Printf("Schema Version: %d (dirty: %t)\n", status.SchemaVersion, status.SchemaDirty)
	}
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
