// Package connectors holds adapters that feed documents into semdoc from
// outside sources. The filesystem connector watches an inbox directory.
package connectors
