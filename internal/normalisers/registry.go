package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/normalisers/html"
	"github.com/custodia-labs/semdoc/internal/normalisers/markdown"
	"github.com/custodia-labs/semdoc/internal/normalisers/plaintext"
)

// Registry selects a normaliser by file extension.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry holding normalisers. A later normaliser
// replaces an earlier one for a shared extension.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Default returns a registry with the built-in text, markdown and HTML
// normalisers.
func Default() *Registry {
	return NewRegistry(plaintext.New(), markdown.New(), html.New())
}

// Register adds n for each of its extensions.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// Supports reports whether filename has a registered extension.
func (r *Registry) Supports(filename string) bool {
	_, ok := r.lookup(filename)
	return ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Extract returns the document text of data, which was uploaded as filename.
// Unsupported extensions and non UTF-8 content return domain.ErrInvalidRequest.
func (r *Registry) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	n, ok := r.lookup(filename)
	if !ok {
		return "", fmt.Errorf("%w: unsupported file type %q, allowed: %s",
			domain.ErrInvalidRequest, filepath.Ext(filename), strings.Join(r.Extensions(), ", "))
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not UTF-8 text", domain.ErrInvalidRequest, filepath.Base(filename))
	}

	text, err := n.Normalise(ctx, data)
	if err != nil {
		return "", fmt.Errorf("normaliser %s: %w", n.Name(), err)
	}
	return text, nil
}

func (r *Registry) lookup(filename string) (driven.Normaliser, bool) {
	n, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return n, ok
}
