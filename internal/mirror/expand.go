package mirror

import (
	"context"
	"log"

	"github.com/cvasquez/conmirror/internal/cdp"
)

// PropertyFetcher is the session surface the expander needs.
type PropertyFetcher interface {
	GetProperties(ctx context.Context, args cdp.GetPropertiesArgs) ([]cdp.PropertyDescriptor, error)
}

// Descriptor carries the property attributes of one expanded member.
type Descriptor struct {
	Enumerable   bool
	Configurable bool
	Writable     bool
	IsOwn        bool
}

// PropertyRecord is one expanded property: its name, a rendered preview of
// its value, and the property attributes.
type PropertyRecord struct {
	Name       string
	Preview    Preview
	Descriptor Descriptor
}

// Expander fetches a remote object's members on demand. Expansion is
// single-level: expanding a returned PropertyRecord's nested preview is a
// fresh, independent call, which bounds recursion and sidesteps cycles in
// self-referential object graphs.
type Expander struct {
	session PropertyFetcher
}

// NewExpander creates an expander over the given session.
func NewExpander(session PropertyFetcher) *Expander {
	return &Expander{session: session}
}

// Expand fetches one level of properties for the object behind preview.
// A preview with no identifier resolves to nothing: a diagnostic is logged
// and nil is returned without error, since a literal simply has no members.
// A failed round trip is returned to the caller, who treats it as no data
// for this one expansion.
func (e *Expander) Expand(ctx context.Context, preview Preview) ([]PropertyRecord, error) {
	if preview.ObjectID == "" {
		log.Printf("mirror: expand requested without object id (title %q)", preview.Title)
		return nil, nil
	}

	descriptors, err := e.session.GetProperties(ctx, cdp.GetPropertiesArgs{
		ObjectID:        preview.ObjectID,
		OwnProperties:   true,
		GeneratePreview: true,
	})
	if err != nil {
		return nil, err
	}

	// Node members are largely accessor-backed; a second round trip
	// materializes those.
	if preview.IsNode {
		accessors, err := e.session.GetProperties(ctx, cdp.GetPropertiesArgs{
			ObjectID:               preview.ObjectID,
			AccessorPropertiesOnly: true,
			GeneratePreview:        true,
		})
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, accessors...)
	}

	records := make([]PropertyRecord, 0, len(descriptors))
	for _, desc := range descriptors {
		// Getter/setter-only descriptors have no materialized value to show.
		if desc.Value == nil {
			continue
		}
		records = append(records, PropertyRecord{
			Name:    desc.Name,
			Preview: BuildPreview(*desc.Value),
			Descriptor: Descriptor{
				Enumerable:   desc.Enumerable,
				Configurable: desc.Configurable,
				Writable:     desc.Writable,
				IsOwn:        desc.IsOwn,
			},
		})
	}

	return records, nil
}
