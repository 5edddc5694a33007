// Package casid computes deterministic content identifiers for files.
//
// The identifier (cas id) is a BLAKE2b-256 digest over the file's byte
// content alone, so identical content yields an identical id regardless of
// path, name, or owning location. Small files are hashed in full; large
// files hash their exact size plus evenly spaced 64 KiB samples, which keeps
// identification cheap on media files while staying stable across runs.
//
// The digest scheme is deliberately pluggable: the identification engine
// takes a Generator, and Compute is only the default implementation.
package casid
