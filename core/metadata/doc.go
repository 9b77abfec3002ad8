// Package metadata encodes and decodes the provenance marker managed
// rules carry inside their descriptions. The marker records where a
// rule's block list came from, which lists belong to it and a
// fingerprint of the content it was built from, which is all the state
// the engine needs to update or remove a configuration later.
package metadata
