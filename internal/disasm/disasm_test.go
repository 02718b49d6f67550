package disasm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestWrite(t *testing.T) {
	rom := []byte{
		0x00, 0xE0,
		0x6A, 0x10,
		0x12, 0x00,
		0xF0,
	}

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, rom, 0x200))

	expected := "; 7 bytes at 0x0200\n" +
		"0x0200: 00e0  cls\n" +
		"0x0202: 6a10  mov va, 16\n" +
		"0x0204: 1200  jmp 0x0200\n" +
		"0x0206: f0    .byte $F0\n"
	assert.Equal(t, expected, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteError(t *testing.T) {
	err := Write(failingWriter{}, []byte{0x00, 0xE0}, 0x200)
	assert.True(t, err != nil)
}
