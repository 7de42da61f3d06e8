// Clientbrief turns client conversation transcripts into PDF reports.
//
// It sends the transcript to an LLM for structured analysis, caches the
// result on disk keyed by transcript content, model, and prompt version,
// and renders the analysis through an HTML template into a PDF. Re-running
// over an unchanged transcript is free: the cached analysis is reused.
//
// Usage:
//
//	clientbrief                          # interactive picker
//	clientbrief --input call.txt         # client report from a file
//	cat call.txt | clientbrief           # client report from stdin
//	clientbrief --report-type design     # design brief with an illustration
//	clientbrief --no-cache               # force a fresh AI call
//	clientbrief cache stats              # inspect the cache
//	clientbrief cache clear              # wipe the cache
package main
