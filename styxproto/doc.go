// Package styxproto provides low-level routines for parsing and
// producing 9P2000.L messages.
//
// The styxproto package is meant for building higher-level 9P2000.L
// libraries on top of. Parsing makes very few assumptions or
// decisions, so it can serve a wide variety of client or server code.
// Messages are not unmarshalled into structures; instead, a Decoder
// hands back a typed view over its own internal buffer, and callers
// read fields through methods (Tag, Fid, and so on) rather than
// struct members.
//
// A Decoder bounds memory usage per connection to a fixed-size
// buffer whose size is chosen when the Decoder is created, giving
// a server predictable resource usage based on its number of
// connections rather than the size of any one message in flight.
package styxproto
