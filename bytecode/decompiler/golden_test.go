package decompiler_test

import (
	"flag"
	"testing"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/decompiler"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/internal/filetest"
)

var updateGolden = flag.Bool("test.update-golden-tests", false, "update decompiler golden files")

// golden cases are named by the testdata/cases source file they stand in
// for; the file's content is never read, only its name drives which
// hand-built opcode stream this test exercises. This mirrors the rest of
// the corpus's source-file-driven golden test layout while avoiding the
// need for an actual bytecode assembler in this test suite.
func buildGoldenCase(t *testing.T, name string) (*container.Code, *container.Function) {
	t.Helper()

	switch name {
	case "linear.src":
		c := &container.Code{Ints: []int32{1, 2}}
		fn := &container.Function{
			FIndex: 0,
			Regs:   []ref.Type{0},
			Ops: []*opcode.Instr{
				intLit(reg(0), 0),
				ret(reg(0)),
			},
		}
		return c, fn

	case "ifelse.src":
		c := &container.Code{Ints: []int32{0, 1}}
		fn := &container.Function{
			FIndex: 0,
			Regs:   []ref.Type{0, 0, 0},
			Ops: []*opcode.Instr{
				jump(opcode.OJSLt, []ref.Reg{reg(0), reg(1)}, 3),
				intLit(reg(2), 0),
				ret(reg(2)),
				jump(opcode.OJAlways, nil, 2),
				intLit(reg(2), 1),
				ret(reg(2)),
			},
		}
		return c, fn

	case "loop.src":
		c := &container.Code{Ints: []int32{0}}
		fn := &container.Function{
			FIndex: 0,
			Regs:   []ref.Type{0, 0, 0},
			Ops: []*opcode.Instr{
				opcode.Default(opcode.OLabel),
				intLit(reg(2), 0),
				jump(opcode.OJSLt, []ref.Reg{reg(0), reg(1)}, -3),
				ret(reg(0)),
			},
		}
		return c, fn
	}

	t.Fatalf("unknown golden case %q", name)
	return nil, nil
}

// TestDecompilePrintGolden runs each testdata/cases entry through Decompile,
// Simplify and Print, and diffs the result against the matching golden file
// under testdata/golden. Run with -test.update-golden-tests to refresh them
// after an intentional rendering change.
func TestDecompilePrintGolden(t *testing.T) {
	for _, fi := range filetest.SourceFiles(t, "testdata/cases", ".src") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			c, fn := buildGoldenCase(t, fi.Name())
			stmts, err := decompiler.Decompile(c, fn)
			if err != nil {
				t.Fatal(err)
			}
			stmts = decompiler.Simplify(c, stmts)
			out := decompiler.Print(c, stmts)
			filetest.DiffOutput(t, fi, out, "testdata/golden", updateGolden)
		})
	}
}
