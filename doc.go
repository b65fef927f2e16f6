// Package memkit locates a game's global singletons by byte signature
// and provides typed access to the game's memory through them.
//
// APIs are separated into subpackages, and documented accordingly:
//
//   - pattern and signature find instructions and the addresses
//     they reference
//   - process acquires module snapshots and remote address spaces
//   - resolve scans every build of the game and generates the tables
//     in baseaddr
//   - memory, attach and version turn those tables into pointer
//     chains, bit flags and positions at run time
//
// For scripting convenience, "OrExit" functions and methods are provided.
// Any errors encountered by these functions are treated as fatal. In such
// cases, an exit handler function is invoked.
package memkit
