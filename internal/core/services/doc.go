// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go and depend only on port interfaces. Per-filename
// locks serialise ingestion and the index cache shares loads through
// singleflight.
package services
