// Package normalisers converts uploaded files into the plain text that is
// chunked and embedded. Each normaliser handles a set of file extensions and
// is selected by the Registry from the upload's filename.
package normalisers
