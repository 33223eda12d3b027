package env

import (
	"encoding/hex"

	"github.com/denisbrodbeck/machineid"

	"github.com/robotalks/skylink/pkg/link"
)

const appID = "skylink"

// MachineAddress derives a stable link address from the machine ID.
func MachineAddress() (link.Address, error) {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		return 0, err
	}
	return foldAddress(id)
}

// foldAddress folds a hex digest into a non-zero 16-bit address.
func foldAddress(digest string) (link.Address, error) {
	b, err := hex.DecodeString(digest)
	if err != nil {
		return 0, err
	}
	var addr uint16
	for i := 0; i+1 < len(b); i += 2 {
		addr ^= uint16(b[i]) | uint16(b[i+1])<<8
	}
	if addr == 0 {
		addr = 1
	}
	return link.Address(addr), nil
}
