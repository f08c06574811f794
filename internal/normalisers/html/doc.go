// Package html provides the normaliser for HTML uploads. Scripts, styles and
// markup are removed and entities decoded so only readable text is indexed.
package html
