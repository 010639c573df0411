package screen

import "encoding/json"

// Action pairs a label with an intent so presentation can render and invoke it
// without knowing what the intent means.
type Action[I Intent] struct {
	Title   string
	Intent  I
	Enabled bool
	// Index is the ordinal position within a list, or -1 outside of one.
	Index int
}

// MarshalJSON names the intent next to its payload so a remote presenter can
// send it back unchanged.
func (a Action[I]) MarshalJSON() ([]byte, error) {
	w := struct {
		Title   string `json:"title"`
		Intent  string `json:"intent,omitempty"`
		Payload any    `json:"payload,omitempty"`
		Enabled bool   `json:"enabled"`
		Index   int    `json:"index"`
	}{Title: a.Title, Enabled: a.Enabled, Index: a.Index}
	if any(a.Intent) != nil {
		w.Intent = a.Intent.IntentName()
		w.Payload = a.Intent
	}
	return json.Marshal(w)
}

// NamedAction returns an enabled action outside of any list.
func NamedAction[I Intent](title string, intent I) Action[I] {
	return Action[I]{Title: title, Intent: intent, Enabled: true, Index: -1}
}

// EnabledAction returns an action whose availability is given explicitly.
func EnabledAction[I Intent](title string, intent I, enabled bool) Action[I] {
	return Action[I]{Title: title, Intent: intent, Enabled: enabled, Index: -1}
}

// IndexedAction returns an enabled action at position index of a list.
func IndexedAction[I Intent](title string, intent I, index int) Action[I] {
	return Action[I]{Title: title, Intent: intent, Enabled: true, Index: index}
}
