// Package resource defines a transport-agnostic resource matrix over
// internal/command: a Lister/Reader/Writer per noun, so a front-end can
// drive the Command Surface without depending on any particular wire
// protocol. internal/resource/httpapi is one concrete binding; nothing
// in this package imports net/http.
package resource

import (
	"context"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/dataaccess"
)

// Kind names one entry in the resource matrix, mirroring the noun
// catalog in spec.md §4.3/§4.4.
type Kind string

const (
	KindWork      Kind = "work"
	KindDocument  Kind = "document"
	KindSection   Kind = "section"
	KindBlock     Kind = "block"
	KindEntity    Kind = "entity"
	KindLabel     Kind = "label"
	KindOverlay   Kind = "overlay"
	KindMention   Kind = "mention"
	KindAlignment Kind = "alignment"
	KindReview    Kind = "review"
)

// Params is a flat string-keyed bag of request parameters: path segments,
// query parameters, and scope ids (parent work/document/section ids,
// filters). Each resource interprets the keys it needs and ignores the
// rest.
type Params map[string]string

// Body is a decoded JSON request body for a create or update call.
type Body map[string]any

// Lister returns a page of resources under a scope described by params.
type Lister interface {
	List(ctx context.Context, q dataaccess.Querier, params Params) (any, error)
}

// Reader returns a single resource by id.
type Reader interface {
	Read(ctx context.Context, q dataaccess.Querier, id string) (any, error)
}

// Writer creates, updates, and deletes a resource.
type Writer interface {
	Create(ctx context.Context, q dataaccess.Querier, params Params, body Body, opts command.Options) (any, error)
	Update(ctx context.Context, q dataaccess.Querier, id string, params Params, body Body, opts command.Options) (any, error)
	Delete(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error
}

// Resource bundles the three roles a front-end needs for one Kind. Any
// role may be nil if the noun doesn't support it (Label/Overlay have no
// independent Delete-by-path without their compound key, for instance,
// so they implement Writer with id encoding "entityID:language" for Label
// and "entityID:workID" for Overlay instead of leaving the interface
// unimplemented).
type Resource struct {
	Kind   Kind
	Lister Lister
	Reader Reader
	Writer Writer
}

// Registry maps each Kind to its Resource, the lookup table every
// transport binding (httpapi, or any future one) drives itself from.
type Registry map[Kind]Resource

func body(b Body, key string) string {
	if b == nil {
		return ""
	}
	s, _ := b[key].(string)
	return s
}

func bodyBool(b Body, key string) bool {
	if b == nil {
		return false
	}
	v, _ := b[key].(bool)
	return v
}

func bodyInt(b Body, key string, def int) int {
	if b == nil {
		return def
	}
	switch n := b[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

func bodyFloat(b Body, key string, def float64) float64 {
	if b == nil {
		return def
	}
	switch n := b[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

func bodyStrings(b Body, key string) []string {
	if b == nil {
		return nil
	}
	raw, ok := b[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func bodyMeta(b Body, key string) map[string]string {
	if b == nil {
		return nil
	}
	raw, ok := b[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
