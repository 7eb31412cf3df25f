// Package userconfig loads the optional per-project override file.
//
// An override is a partial build configuration. It can be written as data
// (YAML, TOML, JSON) or computed (a shell script printing JSON, or a CUE
// program). Every form is wrapped in a Provider; consumers only ever see the
// materialized Document.
package userconfig

import "context"

// Document is a materialized override: a partial configuration keyed by
// top-level configuration field name.
type Document map[string]interface{}

// Provider produces an override document on demand.
type Provider interface {
	Provide(ctx context.Context) (Document, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Document, error)

// Provide calls f(ctx).
func (f ProviderFunc) Provide(ctx context.Context) (Document, error) {
	return f(ctx)
}

// Static returns a provider that always yields doc.
func Static(doc Document) Provider {
	return ProviderFunc(func(context.Context) (Document, error) {
		return doc, nil
	})
}

// Empty reports whether the document carries no overrides.
func (d Document) Empty() bool {
	return len(d) == 0
}
