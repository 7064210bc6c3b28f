package backup

import (
	"fmt"
	"os"
)

// FileRegisters stores the backup bytes in a small file opened with O_SYNC,
// so every write reaches stable storage before the triggering event handler
// returns. This is the stand-in for battery-backed SRAM on a board that has
// none.
type FileRegisters struct {
	f *os.File
}

// OpenFile opens (creating if necessary) the backup register file and
// ensures it is exactly Size bytes. A fresh file reads as all zeroes, which
// Load normalizes to the defaults.
func OpenFile(path string) (*FileRegisters, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_SYNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open backup file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat backup file: %w", err)
	}
	if info.Size() != Size {
		if err := f.Truncate(Size); err != nil {
			f.Close()
			return nil, fmt.Errorf("size backup file: %w", err)
		}
	}

	return &FileRegisters{f: f}, nil
}

// ReadByte reads one backup byte.
func (r *FileRegisters) ReadByte(offset int) (byte, error) {
	if offset < 0 || offset >= Size {
		return 0, fmt.Errorf("backup offset %d out of range", offset)
	}
	var buf [1]byte
	if _, err := r.f.ReadAt(buf[:], int64(offset)); err != nil {
		return 0, fmt.Errorf("read offset %d: %w", offset, err)
	}
	return buf[0], nil
}

// WriteByte writes one backup byte synchronously.
func (r *FileRegisters) WriteByte(offset int, b byte) error {
	if offset < 0 || offset >= Size {
		return fmt.Errorf("backup offset %d out of range", offset)
	}
	if _, err := r.f.WriteAt([]byte{b}, int64(offset)); err != nil {
		return fmt.Errorf("write offset %d: %w", offset, err)
	}
	return nil
}

// Close closes the backing file.
func (r *FileRegisters) Close() error {
	return r.f.Close()
}
