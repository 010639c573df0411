/*
Package reactive provides the two observable primitives screens are built from.

  - Cell: holds a current value. Subscribers receive the current value when they
    subscribe and then every later assignment, in order, with no coalescing.
  - Channel: holds nothing. Each sent value reaches the subscribers active at the
    moment of sending and is then gone. Please is a Channel that carries no payload.

Delivery is synchronous: Set and Send return only after every subscriber has been
called. Assignments made from inside a subscriber callback of the same Cell or
Channel are queued and delivered, in order, once the current fan-out completes
(a trampoline), so a re-entrant write never interleaves with the delivery in
progress and never drops a value.

Owners keep the concrete *Cell or *Channel. Consumers should only be handed the
read-only Value and Stream interfaces.
*/
package reactive
