package object

// Selector narrows a style to a part and state of an object.
// The value is opaque to this package; it only has to match on removal.
type Selector uint32

// SelectorDefault applies a style to the main part in every state.
const SelectorDefault Selector = 0

// Style is a named bag of style properties.
type Style struct {
	Name  string
	Props map[string]string
}

// NewStyle creates an empty style.
func NewStyle(name string) *Style {
	return &Style{Name: name, Props: make(map[string]string)}
}

// Set stores a property and returns the style for chaining.
func (s *Style) Set(prop, value string) *Style {
	s.Props[prop] = value
	return s
}

type styleEntry struct {
	style    *Style
	selector Selector
	disabled bool
}

// AddStyle attaches a style. Attaching the same style and selector twice
// keeps a single entry.
func (o *Object) AddStyle(style *Style, selector Selector) {
	if style == nil {
		return
	}
	if o.findStyle(style, selector) != nil {
		return
	}
	o.styles = append(o.styles, &styleEntry{style: style, selector: selector})
}

// RemoveStyle detaches a style entry.
func (o *Object) RemoveStyle(style *Style, selector Selector) {
	for i, e := range o.styles {
		if e.style == style && e.selector == selector {
			o.styles = append(o.styles[:i], o.styles[i+1:]...)
			return
		}
	}
}

// SetStyleDisabled switches an attached style off or back on without
// detaching it. Unknown entries are ignored.
func (o *Object) SetStyleDisabled(style *Style, selector Selector, disabled bool) {
	if e := o.findStyle(style, selector); e != nil {
		e.disabled = disabled
	}
}

// StyleDisabled reports whether an attached style is switched off.
// Styles that are not attached report true.
func (o *Object) StyleDisabled(style *Style, selector Selector) bool {
	e := o.findStyle(style, selector)
	return e == nil || e.disabled
}

// StyleProp resolves a property over the active styles, last attached wins.
func (o *Object) StyleProp(prop string) (string, bool) {
	for i := len(o.styles) - 1; i >= 0; i-- {
		e := o.styles[i]
		if e.disabled {
			continue
		}
		if v, ok := e.style.Props[prop]; ok {
			return v, true
		}
	}
	return "", false
}

func (o *Object) findStyle(style *Style, selector Selector) *styleEntry {
	for _, e := range o.styles {
		if e.style == style && e.selector == selector {
			return e
		}
	}
	return nil
}
