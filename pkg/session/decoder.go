package session

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/mitchellh/mapstructure"
)

// Decoder turns (name, payload) pairs from the wire into typed intents.
// Payload keys follow the intent's json tags.
type Decoder[I screen.Intent] struct {
	types map[string]reflect.Type
}

// NewDecoder accepts the intents whose names match the given prototypes.
// Prototypes must be struct values.
func NewDecoder[I screen.Intent](prototypes ...I) *Decoder[I] {
	d := &Decoder[I]{types: make(map[string]reflect.Type, len(prototypes))}
	for _, p := range prototypes {
		d.types[p.IntentName()] = reflect.TypeOf(p)
	}
	return d
}

// Names lists the accepted intent names, sorted.
func (d *Decoder[I]) Names() []string {
	names := make([]string, 0, len(d.types))
	for name := range d.types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Decode builds the named intent from payload. Unknown names wrap
// domain.ErrUnknownIntent; payloads that do not fit the intent (including
// unknown keys and text rejected by SanitizeText) wrap domain.ErrInvalidIntent.
func (d *Decoder[I]) Decode(name string, payload map[string]any) (I, error) {
	var zero I
	t, ok := d.types[name]
	if !ok {
		return zero, fmt.Errorf("%q: %w", name, domain.ErrUnknownIntent)
	}

	ptr := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       sanitizeHook(),
		Result:           ptr.Interface(),
	})
	if err != nil {
		return zero, fmt.Errorf("%q: %w", name, err)
	}
	if err := dec.Decode(payload); err != nil {
		return zero, fmt.Errorf("%q: %w: %v", name, domain.ErrInvalidIntent, err)
	}

	intent, ok := ptr.Elem().Interface().(I)
	if !ok {
		return zero, fmt.Errorf("%q: %w", name, domain.ErrInvalidIntent)
	}
	return intent, nil
}
