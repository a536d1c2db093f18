package output

import "github.com/knersus/faultline/internal/model"

// Items converts a report's records to their catalogue wire shapes.
// With fullDetail false only the basic fields are emitted; deduplication,
// severity, and root-cause annotations are dropped.
func Items(report *model.Report, fullDetail bool) []model.CatalogueItem {
	items := make([]model.CatalogueItem, 0, len(report.Records))
	for _, r := range report.Records {
		items = append(items, model.ItemFromRecord(r, fullDetail))
	}
	return items
}
