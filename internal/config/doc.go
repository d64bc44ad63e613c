// Package config turns raw command-line and session-file options into a
// validated, immutable Configuration. Validation enforces the documented
// mutual exclusions, applies derived defaults for options the user left
// unset, and resolves the backend solver selection. After Validate returns,
// the Configuration never changes for the remainder of the session.
package config
