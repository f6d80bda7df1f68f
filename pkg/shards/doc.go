// Package shards decodes generated implementor shards and publishes them.
//
// A shard file announces the implementors of one trait, grouped by the
// crate that provides them. Every (trait, crate) pair becomes one
// types.Shard and one publish on the registry, keyed by Shard.ID().
//
// Supported encodings:
//
//	script  .js          implementors["crate"] = ["<markup>", ...];
//	toml    .toml        trait = "..." with [[crates]] tables
//	yaml    .yaml .yml   trait: ... with a crates list
//	json    .json        {"trait": ..., "crates": [...]}
//	xml     .xml         <shard trait="..."><crate name="..."><impl>...
//
// Script shards take their trait path from the file location:
// implementors/<crate>/<module...>/trait.<Name>.js names <crate>::<module...>::<Name>.
package shards
