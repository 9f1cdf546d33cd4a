package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/emukit/ps2ipc/ipc/common"
)

func TestEncodeReadLayout(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  []byte
	}{
		{"read8", 1, []byte{0x00, 0x34, 0x12, 0x00, 0x00}},
		{"read16", 2, []byte{0x01, 0x34, 0x12, 0x00, 0x00}},
		{"read32", 4, []byte{0x02, 0x34, 0x12, 0x00, 0x00}},
		{"read64", 8, []byte{0x03, 0x34, 0x12, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 16)
			n, err := EncodeRead(buf, 0, 0x1234, tt.width)
			if err != nil {
				t.Fatalf("EncodeRead failed: %v", err)
			}
			if n != common.ReadCommandSize {
				t.Errorf("encoded size = %d, want %d", n, common.ReadCommandSize)
			}
			if !bytes.Equal(buf[:n], tt.want) {
				t.Errorf("encoded bytes = % X, want % X", buf[:n], tt.want)
			}
		})
	}
}

func TestEncodeWriteLayout(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		address uint32
		value   uint64
		want    []byte
	}{
		{"write8", 1, 0x1000, 0x7F, []byte{0x04, 0x00, 0x10, 0x00, 0x00, 0x7F}},
		{"write16", 2, 0x1000, 0xBEEF, []byte{0x05, 0x00, 0x10, 0x00, 0x00, 0xEF, 0xBE}},
		{"write32", 4, 0xDEAD0000, 0x0BADF00D, []byte{0x06, 0x00, 0x00, 0xAD, 0xDE, 0x0D, 0xF0, 0xAD, 0x0B}},
		{"write64", 8, 0x1, 0x1122334455667788,
			[]byte{0x07, 0x01, 0x00, 0x00, 0x00, 0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 16)
			n, err := EncodeWrite(buf, 0, tt.address, tt.value, tt.width)
			if err != nil {
				t.Fatalf("EncodeWrite failed: %v", err)
			}
			if n != common.WriteCommandSize(tt.width) {
				t.Errorf("encoded size = %d, want %d", n, common.WriteCommandSize(tt.width))
			}
			if !bytes.Equal(buf[:n], tt.want) {
				t.Errorf("encoded bytes = % X, want % X", buf[:n], tt.want)
			}
		})
	}
}

func TestEncodeAtOffset(t *testing.T) {
	buf := make([]byte, 32)
	buf[0], buf[1], buf[2] = 0xAA, 0xBB, 0xCC

	n, err := EncodeWrite(buf, 3, 0x1000, 0x7F, 1)
	if err != nil {
		t.Fatalf("EncodeWrite failed: %v", err)
	}

	want := []byte{0xAA, 0xBB, 0xCC, 0x04, 0x00, 0x10, 0x00, 0x00, 0x7F}
	if !bytes.Equal(buf[:3+n], want) {
		t.Errorf("buffer after offset encode = % X, want % X", buf[:3+n], want)
	}
}

func TestInvalidWidth(t *testing.T) {
	buf := make([]byte, 32)
	for _, width := range []int{0, 3, 5, 7, 16, -1} {
		if _, err := EncodeRead(buf, 0, 0x1000, width); !errors.Is(err, common.ErrInvalidWidth) {
			t.Errorf("EncodeRead width %d: error = %v, want ErrInvalidWidth", width, err)
		}
		if _, err := EncodeWrite(buf, 0, 0x1000, 1, width); !errors.Is(err, common.ErrInvalidWidth) {
			t.Errorf("EncodeWrite width %d: error = %v, want ErrInvalidWidth", width, err)
		}
		if _, err := DecodeValue(buf, 0, width); !errors.Is(err, common.ErrInvalidWidth) {
			t.Errorf("DecodeValue width %d: error = %v, want ErrInvalidWidth", width, err)
		}
	}
}

func TestEncodeBufferBounds(t *testing.T) {
	buf := make([]byte, 4) // too small for any command
	if _, err := EncodeRead(buf, 0, 0x1000, 4); !errors.Is(err, common.ErrBatchTooLarge) {
		t.Errorf("EncodeRead into short buffer: error = %v, want ErrBatchTooLarge", err)
	}
	if _, err := EncodeWrite(buf, 0, 0x1000, 1, 8); !errors.Is(err, common.ErrBatchTooLarge) {
		t.Errorf("EncodeWrite into short buffer: error = %v, want ErrBatchTooLarge", err)
	}
}

func TestDecodeValue(t *testing.T) {
	reply := []byte{0x00, 0x0D, 0xF0, 0xAD, 0x0B, 0x42}

	tests := []struct {
		name  string
		off   int
		width int
		want  uint64
	}{
		{"u8", 1, 1, 0x0D},
		{"u16", 1, 2, 0xF00D},
		{"u32", 1, 4, 0x0BADF00D},
		{"u8 deep", 5, 1, 0x42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue(reply, tt.off, tt.width)
			if err != nil {
				t.Fatalf("DecodeValue failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeValue = 0x%X, want 0x%X", got, tt.want)
			}
		})
	}

	if _, err := DecodeValue(reply, 4, 8); !errors.Is(err, common.ErrUnknown) {
		t.Errorf("DecodeValue past end: error = %v, want ErrUnknown", err)
	}
}

func TestBatchHeader(t *testing.T) {
	buf := make([]byte, 8)
	n := EncodeBatchHeader(buf)
	if n != common.BatchHeaderSize {
		t.Fatalf("header size = %d, want %d", n, common.BatchHeaderSize)
	}
	if buf[0] != 0xFF {
		t.Errorf("header opcode = 0x%02X, want 0xFF", buf[0])
	}

	PatchBatchCount(buf, 0x0201)
	if buf[1] != 0x01 || buf[2] != 0x02 {
		t.Errorf("count field = % X, want 01 02", buf[1:3])
	}
}
