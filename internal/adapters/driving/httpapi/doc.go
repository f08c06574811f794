// Package httpapi provides the JSON HTTP adapter for semdoc.
//
// Routes live under /api/v1. Upload staging is keyed by the X-Session-Key
// header or the semdoc_session cookie, which is issued on the first
// extract-text call. Responses use the {"success", "message"} envelope.
package httpapi
