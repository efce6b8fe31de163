package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// magic is the 4-byte header identifying a TKBC bytecode file.
var magic = [4]byte{'T', 'K', 'B', 'C'}

// Write serializes the program to w in the TKBC format: magic header,
// function count, then per function (name length, name bytes, entry,
// param count, local count), then main entry, code size, and the
// instruction stream's raw bytes (instructions are already a flat
// opcode+operand byte sequence, so the code section is written verbatim).
//
// Byte order is fixed at big-endian so the format is portable across
// hosts, matching [Make]'s big-endian operand encoding used throughout
// this package.
func Write(w io.Writer, p *Program) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(p.Functions))); err != nil {
		return err
	}
	for _, fn := range p.Functions {
		if err := writeUint32(w, uint32(len(fn.Name))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, fn.Name); err != nil {
			return err
		}
		if err := writeInt32(w, int32(fn.Entry)); err != nil {
			return err
		}
		if err := writeInt32(w, int32(fn.ParamCount)); err != nil {
			return err
		}
		if err := writeInt32(w, int32(fn.LocalCount)); err != nil {
			return err
		}
	}
	if err := writeInt32(w, int32(p.MainEntry)); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(p.Code))); err != nil {
		return err
	}
	_, err := w.Write(p.Code)
	return err
}

// Read deserializes a TKBC bytecode file from r.
func Read(r io.Reader) (*Program, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("reading TKBC magic: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("not a TKBC file: got magic %q", gotMagic)
	}

	fnCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading function count: %w", err)
	}

	p := &Program{Functions: make([]FunctionEntry, 0, fnCount)}
	for i := uint32(0); i < fnCount; i++ {
		nameLen, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("reading function %d name length: %w", i, err)
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return nil, fmt.Errorf("reading function %d name: %w", i, err)
		}
		entry, err := readInt32(r)
		if err != nil {
			return nil, fmt.Errorf("reading function %d entry: %w", i, err)
		}
		paramCount, err := readInt32(r)
		if err != nil {
			return nil, fmt.Errorf("reading function %d param count: %w", i, err)
		}
		localCount, err := readInt32(r)
		if err != nil {
			return nil, fmt.Errorf("reading function %d local count: %w", i, err)
		}
		p.Functions = append(p.Functions, FunctionEntry{
			Name:       string(nameBytes),
			Entry:      int(entry),
			ParamCount: int(paramCount),
			LocalCount: int(localCount),
		})
	}

	mainEntry, err := readInt32(r)
	if err != nil {
		return nil, fmt.Errorf("reading main entry: %w", err)
	}
	p.MainEntry = int(mainEntry)

	codeSize, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading code size: %w", err)
	}
	code := make([]byte, codeSize)
	if _, err := io.ReadFull(r, code); err != nil {
		return nil, fmt.Errorf("reading code: %w", err)
	}
	p.Code = code

	return p, nil
}

// Equal reports whether two programs are byte-identical once re-encoded —
// used to check that a program survives a write/read round trip intact.
func (p *Program) Equal(other *Program) bool {
	var a, b bytes.Buffer
	if err := Write(&a, p); err != nil {
		return false
	}
	if err := Write(&b, other); err != nil {
		return false
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeInt32(w io.Writer, v int32) error {
	return writeUint32(w, uint32(v))
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readInt32(r io.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}
