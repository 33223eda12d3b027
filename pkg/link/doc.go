// Package link provides skylink frame support.
package link

// The skylink protocol is communicated between a vehicle and its ground
// station over a raw byte stream (e.g. serial port or radio modem) which
// provides no framing of its own.
//
// Every frame has the same size and layout:
//
//   offset size field
//   0      1    start (0xA7)
//   1      2    from  (little-endian)
//   3      2    to    (little-endian)
//   5      1    type
//   6      55   data  (payload, zero-padded)
//   61     1    CRC-8 (poly 0xD5) over bytes [0, 61)
//   62     1    end   (0xAA)
//
// There is no length field. A receiver finds frames by the start sentinel
// and the fixed width, and validates them with the end sentinel and the CRC.
// When a candidate fails validation the receiver drops a single byte and
// looks for the next start sentinel inside what it already buffered, so a
// sentinel-valued byte in the noise can't hide a real frame behind it.
