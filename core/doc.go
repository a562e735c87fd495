// Package core implements the correlation and delivery protocol for
// asynchronous wallet-approval callbacks: correlation key resolution,
// the shared result store contract with its in-memory reference
// implementation, and the relay service that ties ingestion, storage,
// downstream forwarding and the polling read path together.
//
// The hard invariants live here. An outcome record stored under both a
// correlation id and a legacy workflow/node/item key is one logical
// record viewed from two lookup paths; writes are last-write-wins per
// key; and a failed downstream delivery never surfaces to the caller
// that triggered it.
package core
