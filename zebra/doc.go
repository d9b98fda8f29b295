// Package zebra implements the line-oriented ASCII control protocol of the
// Zebra position-compare and logic unit over a serial link.
//
// The unit multiplexes two logically distinct streams over one physical
// line: replies to register commands, and unsolicited capture messages
// produced by the position-compare subsystem while an acquisition runs.
// The package keeps the two apart, correlates every command with exactly
// one reply, and turns capture messages into structured samples.
//
// # Protocol Overview
//
// Every message is a single ASCII line terminated by LF (incoming lines may
// carry CRLF). Commands and replies:
//
//   - R<AA>        read register AA, replied with R<AA><VVVV>
//   - W<AA><VVVV>  write register AA, replied with W<AA>OK
//   - S            save configuration to flash, replied with SOK
//   - L            restore configuration from flash, replied with LOK
//   - E1R<AA>      read fault for register AA
//   - E1W<AA>      write fault for register AA
//   - E0           the unit could not parse the command
//
// Unsolicited capture messages all start with P:
//
//   - PR                         capture buffer reset, acquisition started
//   - P<TTTTTTTT><FFFFFFFF>...   one timestamped capture, field count and
//     order set by the PC_BIT_CAP mask
//   - PX                         acquisition finished
//
// # Command Protocol
//
// The unit services one command at a time, so [Connection] keeps exactly one
// request in flight: concurrent callers of [Connection.ReadRegister] and its
// siblings queue on an internal mutex and each exchange resolves against the
// next reply line. Replies echo the register address; a mismatched echo is
// reported as a register error rather than silently accepted.
//
// # Capture Events
//
// A reader task splits the incoming byte stream into lines and routes
// capture messages through a bounded buffer to the decoder, which emits
// [Event] values (Reset, Sample, End, DecodeFailure) to subscribers
// registered with [Connection.AddEventHandler]. Sample timestamps are
// unwrapped across 32-bit counter rollover and scaled to seconds using the
// configured prescaler scale.
//
// # Link State
//
// The link moves between Disconnected, Connecting, Connected and Lost.
// There is no automatic reconnection: a read or write failure moves the
// link to Lost, fails the pending command, and stops the session tasks;
// the caller decides when to close and reopen. State changes are observable
// through handlers and [Connection.WaitState].
package zebra
