// Package program defines the intermediate representation a verification
// session operates on: a set of functions, each a flat instruction list with
// goto-style control flow, sharing one symbol table. Transform stages mutate
// a Model in place; the session owns the Model exclusively for its lifetime.
package program
