// Package session is the session/token authority's domain: the session
// record, the contract of the TTL key-value store sessions live in, the codec
// for what is written under each key, and the Ledger that keeps the two
// indices consistent.
//
// Two logical indices are kept in the store:
//
//	forward  <prefix>token:<digest>  ->  v1:<account id>:<issued at ms>
//	reverse  <prefix>account:<id>    ->  <digest>
//
// where digest is the SHA-256 hex of the bearer token. A token is valid only
// while its forward entry exists and the reverse entry of the account it
// names points back at the same digest. The reverse entry is therefore the
// source of truth for which session of an account is current, and a newer
// login silently demotes every older token of that account.
//
// The store offers no multi-key transactions. Writes are ordered so that a
// reader who sees a reverse entry can always resolve its forward entry, and
// every read path re-checks both halves instead of trusting either one.
package session
