package eeprom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/door-lock/internal/config"
)

const (
	// Size is the image capacity in bytes, matching a 24C16.
	Size = 2048

	// erased is the value of a cell that was never written.
	erased byte = 0xFF
)

// ErrAddressRange is returned for an address outside the image.
var ErrAddressRange = errors.New("eeprom address out of range")

// FileImage persists an EEPROM image in a file on disk.
// Each write is synced before it returns.
type FileImage struct {
	// path is the filesystem location of the image.
	path string
	// mu serializes access to the image file.
	mu sync.Mutex
}

// NewFileImage creates an image backed by path. The file is created on first write.
func NewFileImage(path string) *FileImage {
	return &FileImage{
		path: filepath.Clean(path),
	}
}

// WriteByteAt stores value at addr and syncs the file.
func (f *FileImage) WriteByteAt(addr uint16, value byte) error {
	if err := checkAddress(addr); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open eeprom image: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	if err = format(file); err != nil {
		return err
	}

	if _, err = file.WriteAt([]byte{value}, int64(addr)); err != nil {
		return fmt.Errorf("write eeprom image: %w", err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("sync eeprom image: %w", err)
	}

	return nil
}

// ReadByteAt returns the byte at addr, or 0xFF if the image does not exist yet.
func (f *FileImage) ReadByteAt(addr uint16) (byte, error) {
	if err := checkAddress(addr); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return erased, nil
		}

		return 0, fmt.Errorf("open eeprom image: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	var b [1]byte

	if _, err = file.ReadAt(b[:], int64(addr)); err != nil {
		if errors.Is(err, io.EOF) {
			return erased, nil
		}

		return 0, fmt.Errorf("read eeprom image: %w", err)
	}

	return b[0], nil
}

// format fills a fresh or short image with erased cells up to Size.
func format(file *os.File) error {
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat eeprom image: %w", err)
	}

	if info.Size() >= Size {
		return nil
	}

	fill := make([]byte, Size-info.Size())
	for i := range fill {
		fill[i] = erased
	}

	if _, err = file.WriteAt(fill, info.Size()); err != nil {
		return fmt.Errorf("format eeprom image: %w", err)
	}

	return nil
}

func checkAddress(addr uint16) error {
	if addr >= Size {
		return fmt.Errorf("%w: %#04x", ErrAddressRange, addr)
	}

	return nil
}
