package bytecode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeAndReadOperand(t *testing.T) {
	ins := Make(PUSH, 42)
	require.Len(t, ins, 5)
	require.Equal(t, byte(PUSH), ins[0])
	require.Equal(t, 42, ReadOperand(ins[1:]))
}

func TestMakeNoOperand(t *testing.T) {
	ins := Make(ADD, 0)
	require.Len(t, ins, 1)
}

func TestInstructionsString(t *testing.T) {
	var code Instructions
	code = append(code, Make(PUSH, 1)...)
	code = append(code, Make(PUSH, 2)...)
	code = append(code, Make(ADD, 0)...)

	out := code.String()
	require.Contains(t, out, "0000 PUSH 1")
	require.Contains(t, out, "0005 PUSH 2")
	require.Contains(t, out, "0010 ADD")
}

func TestFileRoundTrip(t *testing.T) {
	p := NewProgram()
	p.Functions = []FunctionEntry{
		{Name: "ana", Entry: 0, ParamCount: 0, LocalCount: 2},
	}
	p.MainEntry = 0
	p.Code = append(p.Code, Make(PUSH, 42)...)
	p.Code = append(p.Code, Make(RETVAL, 0)...)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	got, err := Read(&buf)
	require.NoError(t, err)

	require.True(t, p.Equal(got), "round-tripped program must be byte-identical")
	require.Equal(t, p.Functions, got.Functions)
	require.Equal(t, p.MainEntry, got.MainEntry)
	require.Equal(t, []byte(p.Code), []byte(got.Code))
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("NOPE")))
	require.Error(t, err)
}

func TestNoMainEntryMeansNotExecutable(t *testing.T) {
	p := NewProgram()
	require.Equal(t, NoMainEntry, p.MainEntry)
}
