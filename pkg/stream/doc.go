// Package stream fans notifications out to live subscriber connections.
//
// A Broadcaster keeps a registry of subscriber handles keyed by client
// id. Broadcast delivery is best-effort and at-most-once: each write is
// bounded by a short timeout, and a subscriber that cannot accept the
// write in time is removed and closed so a dead or slow client never
// stalls delivery to the others. Subscribers that connect after a
// broadcast never receive it retroactively.
//
// MemoryBroadcaster serves the single-instance deployment this core is
// designed for. RedisBroadcaster carries the same contract over Redis
// pub/sub for deployments that need cross-instance fan-out.
package stream
