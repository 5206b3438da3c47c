// Package iprange implements the address arithmetic shared by the block-list
// generator and the serving index: greedy range to CIDR decomposition,
// interval merging, and binary-search containment over sorted range tables.
//
// The algorithms are written once over the Uint capability and instantiated
// for IPv4 (V4, 32 bits) and IPv6 (V6, 128 bits).
package iprange
