/*
Package domain contains the machine model of the Turing engine.

It defines the finite control of a deterministic Turing machine: states,
the transitions between them and the Configuration that owns both. The
package is generic over the tape alphabet and is kept free of I/O,
persistence and execution concerns.

# Key Entities

  - StateID: Unsigned identifier of a state. Ids need not be contiguous.
  - Transition: Input symbols, output symbol, head move and target state.
  - State: Acceptance tag plus at most one Transition per target state.
  - Configuration: All states of a machine and the start state id.

States and transitions are immutable values. Mutating operations on a
Configuration build a new record and swap it into the owning map, so a
State handed out to a caller never changes underneath it.
*/
package domain
