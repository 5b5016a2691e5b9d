package mir

import "github.com/shadowlink0122/Cm-sub000/internal/source"

// builder accumulates the Locals/Blocks of the Func currently being
// lowered. One builder is used per hir.Func, then handed off to the
// caller via finish().
type builder struct {
	f *Func
}

func newBuilder(name string, span source.Span) *builder {
	return &builder{f: &Func{Name: name, Span: span, Entry: NoBlockID}}
}

// newLocal allocates a fresh local slot and returns its LocalID.
func (b *builder) newLocal(l Local) LocalID {
	id := LocalID(len(b.f.Locals))
	b.f.Locals = append(b.f.Locals, l)
	return id
}

// newTemp allocates an unnamed compiler-introduced temporary, the kind of
// slot expression lowering materializes sub-results into (spec.md §4.4).
func (b *builder) newTemp(l Local) LocalID {
	l.IsTemp = true
	if l.Name == "" {
		l.Name = tempName(len(b.f.Locals))
	}
	return b.newLocal(l)
}

func tempName(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "$t0"
	}
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = digits[n%10]
		n /= 10
	}
	return "$t" + string(buf[i:])
}

// newBlock appends a fresh, unterminated basic block and returns its ID.
func (b *builder) newBlock() BlockID {
	id := BlockID(len(b.f.Blocks))
	b.f.Blocks = append(b.f.Blocks, Block{ID: id})
	if b.f.Entry == NoBlockID {
		b.f.Entry = id
	}
	return id
}

// emit appends instr to block.
func (b *builder) emit(block BlockID, instr Instr) {
	blk := b.f.Block(block)
	if blk == nil || blk.Terminated() {
		return
	}
	blk.Instrs = append(blk.Instrs, instr)
}

// emitAssign appends `dst := src` to block.
func (b *builder) emitAssign(block BlockID, dst Place, src RValue) {
	b.emit(block, Instr{Kind: InstrAssign, Assign: AssignInstr{Dst: dst, Src: src}})
}

// emitCall appends a standalone, result-discarding call to block.
func (b *builder) emitCall(block BlockID, callee Callee, args []Operand) {
	b.emit(block, Instr{Kind: InstrCall, Call: CallInstr{Callee: callee, Args: args}})
}

// emitCallAssign appends a call whose result is written to dst.
func (b *builder) emitCallAssign(block BlockID, dst Place, callee Callee, args []Operand) {
	b.emit(block, Instr{Kind: InstrCall, Call: CallInstr{Callee: callee, Args: args, HasResult: true, Dst: dst}})
}

// terminate sets block's terminator, once.
func (b *builder) terminate(block BlockID, term Terminator) {
	blk := b.f.Block(block)
	if blk == nil || blk.Terminated() {
		return
	}
	blk.Term = term
}

func (b *builder) finish() *Func { return b.f }
