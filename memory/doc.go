// Package memory provides functionality for reading and writing the
// memory of a software process through chains of pointers.
//
// Address spaces
//
// A Space reads and writes raw bytes at virtual addresses. Local
// accesses the current process' own memory, Buffer maps a byte
// slice at a base address (such as a snapshot of a module), and
// the process package provides a Space for other processes.
//
// Pointer chains
//
// Live objects in the target are rarely at fixed addresses. Instead,
// a fixed location in the module's image holds a pointer to an object,
// which holds a pointer to another object, and so on. A PointerChain
// describes such a path as a root address and a list of offsets, and
// follows it again on every access. When any pointer along the way
// is null or unreadable, the access fails with ErrBrokenChain rather
// than touching memory. BitFlag and Position are built on top of
// PointerChain.
//
// Address tables
//
// AddressTable tracks the offsets of symbols for several builds of
// the target, and rebases them against the module's load address.
package memory
