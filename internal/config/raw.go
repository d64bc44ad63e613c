package config

// valueKind discriminates the three option value shapes.
type valueKind int

const (
	kindBool valueKind = iota
	kindString
	kindList
)

// value is one option value: a bool, a string, or an ordered string list.
type value struct {
	kind valueKind
	b    bool
	s    string
	list []string
}

// Raw is the mutable pre-validation option set. The CLI layer and the
// session-file loader both feed into it; Validate then freezes it into a
// Configuration. An option is "set" only when the user supplied it
// explicitly, which is what the derived-default rules key off.
type Raw struct {
	opts map[string]value
}

// NewRaw returns an empty raw option set.
func NewRaw() *Raw {
	return &Raw{opts: make(map[string]value)}
}

// SetBool records a boolean option.
func (r *Raw) SetBool(name string, v bool) {
	r.opts[name] = value{kind: kindBool, b: v}
}

// SetString records a string option.
func (r *Raw) SetString(name, v string) {
	r.opts[name] = value{kind: kindString, s: v}
}

// SetList records a string-list option, replacing any previous value.
func (r *Raw) SetList(name string, v []string) {
	r.opts[name] = value{kind: kindList, list: append([]string(nil), v...)}
}

// Append adds one element to a string-list option.
func (r *Raw) Append(name, elem string) {
	v := r.opts[name]
	v.kind = kindList
	v.list = append(v.list, elem)
	r.opts[name] = v
}

// IsSet reports whether the user supplied the option explicitly.
func (r *Raw) IsSet(name string) bool {
	_, ok := r.opts[name]
	return ok
}

// Bool returns the boolean value of an option, false if unset.
func (r *Raw) Bool(name string) bool {
	return r.opts[name].b
}

// String returns the string value of an option, "" if unset.
func (r *Raw) String(name string) string {
	return r.opts[name].s
}

// List returns the list value of an option, nil if unset.
func (r *Raw) List(name string) []string {
	return r.opts[name].list
}

// MergeUnder copies every option of other that is not already set on r.
// Used to layer a session file beneath the command line: flags win.
func (r *Raw) MergeUnder(other *Raw) {
	for name, v := range other.opts {
		if _, ok := r.opts[name]; !ok {
			r.opts[name] = v
		}
	}
}
