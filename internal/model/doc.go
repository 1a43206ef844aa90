// Package model defines the data structures shared by the report writers
// and the run history database.
//
// This package contains the following main types:
//   - RankReport: the ranks of one corpus from both estimators
//   - Parameters: the estimator settings a report was produced with
//   - RunSummary: the metadata of a stored run
//
// The models are kept apart from report and database so that both can use
// them without import cycles. They are serializable to JSON for report
// output and database storage.
package model
