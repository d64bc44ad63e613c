package config

// Configuration is the validated, immutable option set for one session.
// It contains both the options the user set explicitly and the derived
// defaults the validator filled in.
type Configuration struct {
	opts map[string]value
}

// IsSet reports whether the option is present, whether set by the user or
// derived during validation.
func (c *Configuration) IsSet(name string) bool {
	_, ok := c.opts[name]
	return ok
}

// Bool returns the boolean value of an option, false if absent.
func (c *Configuration) Bool(name string) bool {
	return c.opts[name].b
}

// String returns the string value of an option, "" if absent.
func (c *Configuration) String(name string) string {
	return c.opts[name].s
}

// List returns a copy of the list value of an option, nil if absent.
func (c *Configuration) List(name string) []string {
	v := c.opts[name]
	if v.list == nil {
		return nil
	}
	return append([]string(nil), v.list...)
}
