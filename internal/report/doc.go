// Package report writes a YAML summary of an export run.
//
// # Usage
//
//	summary := report.NewSummary(manifestPath, manager.Outcomes())
//	if err := summary.Save("report.yaml"); err != nil {
//	    log.Printf("Failed to write report: %v", err)
//	}
//
// Item URLs are taken from DownloadTask.DisplayURL, so the api key never
// reaches the file.
package report
