//go:build linux

package device

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"
)

const (
	iocGAXES    uint = 0x80016a11
	iocGBUTTONS uint = 0x80016a12
	iocGNAME    uint = 0x80ff6a13
)

type device struct {
	file        *os.File
	name        string
	axisCount   uint8
	buttonCount uint8
	buf         [EventSize]byte
}

// Open opens /dev/input/js<index>.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &device{file: f}
	var name [128]byte
	errno := d.ioctl(iocGAXES, unsafe.Pointer(&d.axisCount))
	if errno == 0 {
		errno = d.ioctl(iocGBUTTONS, unsafe.Pointer(&d.buttonCount))
	}
	if errno == 0 {
		errno = d.ioctl(iocGNAME, unsafe.Pointer(&name))
	}
	if errno != 0 {
		f.Close()
		return nil, errno
	}
	if pos := bytes.IndexByte(name[:], 0); pos >= 0 {
		d.name = string(name[:pos])
	} else {
		d.name = string(name[:])
	}
	return d, nil
}

func (d *device) Close() error {
	return d.file.Close()
}

func (d *device) Name() string {
	return d.name
}

func (d *device) AxisCount() int {
	return int(d.axisCount)
}

func (d *device) ButtonCount() int {
	return int(d.buttonCount)
}

func (d *device) ReadEvent() (Event, error) {
	if _, err := io.ReadFull(d.file, d.buf[:]); err != nil {
		return Event{}, err
	}
	return DecodeEvent(d.buf[:])
}

func (d *device) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL, d.file.Fd(), uintptr(req), uintptr(ptr))
	return err
}
