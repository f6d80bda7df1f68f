// Package types defines the data carried by implementor shards.
// This includes the Implementor descriptor, the Payload sequence handed to
// the registry, and the Shard announcement decoded from a generated file.
package types
