// Package http provides the HTTP client used to fetch recordings and
// transcripts.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Optional Accept headers (transcripts ask for application/json)
//   - Timeout handling
//   - Reading 2xx bodies fully into memory
//
// # Basic Usage
//
//	client := http.NewClient(60 * time.Second)
//
//	resp, err := client.Fetch(ctx, transcriptURL, "application/json")
//	if err == nil && resp.OK() {
//	    fmt.Println(resp.ContentType(), len(resp.Body))
//	}
package http
