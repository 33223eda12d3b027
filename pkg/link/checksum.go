package link

import (
	"github.com/go-daq/crc8"
)

// CRCPolynomial is the CRC-8 polynomial (DVB-S2) of the integrity byte.
const CRCPolynomial = 0xD5

var crc8D5Table = crc8.MakeTable(CRCPolynomial)

func checksum(b []byte) uint8 {
	return crc8.Checksum(b, crc8D5Table)
}
