package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFileCreatesSizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.bin")

	regs, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer regs.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != Size {
		t.Errorf("file size: got %d, want %d", info.Size(), Size)
	}
}

func TestFileRegistersReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.bin")
	regs, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer regs.Close()

	if err := regs.WriteByte(3, 0xAB); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := regs.ReadByte(3)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if b != 0xAB {
		t.Errorf("read back: got %02x, want ab", b)
	}

	// Untouched bytes stay zero.
	b, err = regs.ReadByte(0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if b != 0 {
		t.Errorf("fresh byte: got %02x, want 00", b)
	}
}

func TestFileRegistersOffsetBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.bin")
	regs, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer regs.Close()

	if _, err := regs.ReadByte(-1); err == nil {
		t.Error("negative read offset accepted")
	}
	if _, err := regs.ReadByte(Size); err == nil {
		t.Error("out-of-range read offset accepted")
	}
	if err := regs.WriteByte(Size, 0); err == nil {
		t.Error("out-of-range write offset accepted")
	}
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.bin")

	regs, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := NewStore(regs)
	s.StoreTallyA(123)
	s.StoreGoalB(45)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	regs, err = OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s = NewStore(regs)
	defer s.Close()

	tallyA, _, _, goalB := s.Load()
	if tallyA != 123 {
		t.Errorf("tally A after reopen: got %d, want 123", tallyA)
	}
	if goalB != 45 {
		t.Errorf("goal B after reopen: got %d, want 45", goalB)
	}
}

func TestOpenFileTruncatesOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.bin")
	if err := os.WriteFile(path, make([]byte, 100), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	regs, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer regs.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != Size {
		t.Errorf("file size: got %d, want %d", info.Size(), Size)
	}
}
