package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueIndexString(t *testing.T) {
	require.Equal(t, "r3", Register(3).String())
	require.Equal(t, "c0", Constant(0).String())
	require.Equal(t, "u1", Capture(1).String())
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		ins  Instruction
		want string
	}{
		{Instruction{Op: CopyValue, Value: Constant(0), Target: 2}, "CopyValue c0 r2"},
		{Instruction{Op: Call, Value: Register(1), Target: 0}, "Call r1 r0"},
		{Instruction{Op: TailCall, Value: Capture(0)}, "TailCall u0"},
		{Instruction{Op: CallArgument, Value: Constant(1)}, "CallArgument c1"},
		{Instruction{Op: Return, Value: Register(0)}, "Return r0"},
		{Instruction{Op: Jump, Offset: -4}, "Jump -4"},
		{Instruction{Op: JumpToPositionIfFalse, Value: Register(2), Offset: 3}, "JumpToPositionIfFalse r2 +3"},
		{Instruction{Op: Crash}, "Crash"},
		{Instruction{}, "Nop"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.ins.String())
	}
}

func TestGetInfo(t *testing.T) {
	require.Equal(t, "CreateClosure", GetInfo(CreateClosure).Name)
	require.Equal(t, "Code(200)", GetInfo(Code(200)).Name)
}
