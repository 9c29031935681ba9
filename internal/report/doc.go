// Package report builds shareable LCA reports from assessments and keeps a
// history of them on disk.
//
// A Report bundles an assessment with its recommendations and the savings
// equivalencies for a production mass. Reports are rendered as Markdown and
// stored as one JSON file per report:
//   - File names follow lca_report_<metal>_<route>_<ulid>.json
//   - IDs are the file name without extension and sort by creation time
//   - Writes go to a temporary file first and are renamed into place
package report
