// Package notification owns the operator-facing notification feed: an
// ordered, bounded collection of notification records with read/unread
// state and expiry.
//
// The store is the single piece of mutable shared state reached from two
// independent call paths (webhook-triggered writes and the admin API), so
// every mutation is serialized behind one mutex. Records without a user
// id are broadcasts, visible to every user filter.
package notification
