package koopa

import (
	"fmt"
	"strings"
)

// Print writes the program's textual Koopa-like IR to sb: globals first, then functions,
// per the grammar defined in spec.md §4.9. Dead blocks are skipped entirely. Integer
// operands are inlined directly rather than bound to named temporaries, matching the
// spec's "peephole at emit time" rule.
func (p *Program) Print(sb *strings.Builder) {
	for _, g := range p.globals {
		sb.WriteString(p.printGlobal(g))
		sb.WriteRune('\n')
	}
	if len(p.globals) > 0 {
		sb.WriteRune('\n')
	}
	for i1, f := range p.funcs {
		if i1 > 0 {
			sb.WriteRune('\n')
		}
		p.printFunction(sb, f)
	}
}

func (p *Program) printGlobal(g Value) string {
	d := p.data(g)
	if d.init == NoValue {
		return fmt.Sprintf("global @%s = alloc %s, zeroinit", d.name, d.allocType.String())
	}
	return fmt.Sprintf("global @%s = alloc %s, %s", d.name, d.allocType.String(), p.operand(d.init))
}

// operand renders a Value as it appears inline in an instruction: Integer/ZeroInit/
// Aggregate print their literal form; everything else prints its assigned register name.
func (p *Program) operand(v Value) string {
	if v == NoValue {
		return ""
	}
	d := p.data(v)
	switch d.kind {
	case KIntegerConst:
		return fmt.Sprintf("%d", d.intVal)
	case KZeroInit:
		return "zeroinit"
	case KAggregate:
		parts := make([]string, len(d.elems))
		for i1, e1 := range d.elems {
			parts[i1] = p.operand(e1)
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case KGlobalAlloc:
		return "@" + d.name
	default:
		return p.names[v]
	}
}

func (p *Program) printFunction(sb *strings.Builder, f *FunctionData) {
	params := make([]string, len(f.ParamTypes))
	names := p.funcParamNames(f)
	for i1, t := range f.ParamTypes {
		params[i1] = fmt.Sprintf("%s: %s", names[i1], t.String())
	}
	ret := ""
	if f.RetType.Kind != KindUnit {
		ret = ": " + f.RetType.String()
	}
	if f.Declared {
		sb.WriteString(fmt.Sprintf("decl @%s(%s)%s\n", f.Name, strings.Join(params, ", "), ret))
		return
	}

	sb.WriteString(fmt.Sprintf("fun @%s(%s)%s {\n", f.Name, strings.Join(params, ", "), ret))
	p.assignNames(f)
	p.printFunc = f
	for _, b := range f.Blocks {
		if b.dead {
			continue
		}
		sb.WriteString(fmt.Sprintf("%%%s:\n", b.Name))
		for _, v := range b.Insts {
			sb.WriteString("    ")
			sb.WriteString(p.printInst(v))
			sb.WriteRune('\n')
		}
	}
	sb.WriteString("}\n")
}

func (p *Program) funcParamNames(f *FunctionData) []string {
	names := make([]string, len(f.Params))
	for i1, v := range f.Params {
		names[i1] = fmt.Sprintf("%%%d", i1)
		p.setName(v, names[i1])
	}
	return names
}

// names maps Value handles that produce a printable register to their assigned textual
// name. Populated per function by assignNames immediately before printing it.
//
// This lazily-initialized side table keeps valueData itself free of a naming concern:
// naming is purely a printer/backend responsibility, computed from position in the
// function layout rather than at construction time.
func (p *Program) setName(v Value, name string) {
	if p.names == nil {
		p.names = make(map[Value]string)
	}
	p.names[v] = name
}

// assignNames assigns sequential "%N" names to every instruction in f that produces a
// usable result (Alloc, Load, Binary, Call with non-Unit type, GetElemPtr, GetPtr).
func (p *Program) assignNames(f *FunctionData) {
	n := 0
	for _, b := range f.Blocks {
		if b.dead {
			continue
		}
		for _, v := range b.Insts {
			if p.definesValue(v) {
				p.setName(v, fmt.Sprintf("%%%d", n))
				n++
			}
		}
	}
}

func (p *Program) definesValue(v Value) bool {
	d := p.data(v)
	switch d.kind {
	case KAlloc, KLoad, KBinary, KGetElemPtr, KGetPtr:
		return true
	case KCall:
		return d.typ.Kind != KindUnit
	default:
		return false
	}
}

func (p *Program) printInst(v Value) string {
	d := p.data(v)
	switch d.kind {
	case KAlloc:
		return fmt.Sprintf("%s = alloc %s", p.names[v], d.allocType.String())
	case KLoad:
		return fmt.Sprintf("%s = load %s", p.names[v], p.operand(d.ptr))
	case KStore:
		return fmt.Sprintf("store %s, %s", p.operand(d.src), p.operand(d.ptr))
	case KBinary:
		return fmt.Sprintf("%s = %s %s, %s", p.names[v], d.op.String(), p.operand(d.lhs), p.operand(d.rhs))
	case KBranch:
		return fmt.Sprintf("br %s, %%%s, %%%s", p.operand(d.cond), p.blockName(d.trueBB), p.blockName(d.falseBB))
	case KJump:
		return fmt.Sprintf("jump %%%s", p.blockName(d.target))
	case KReturn:
		if d.hasRet {
			return fmt.Sprintf("ret %s", p.operand(d.retVal))
		}
		return "ret"
	case KCall:
		args := make([]string, len(d.args))
		for i1, a := range d.args {
			args[i1] = p.operand(a)
		}
		call := fmt.Sprintf("call @%s(%s)", d.callee, strings.Join(args, ", "))
		if d.typ.Kind != KindUnit {
			return fmt.Sprintf("%s = %s", p.names[v], call)
		}
		return call
	case KGetElemPtr:
		return fmt.Sprintf("%s = getelemptr %s, %s", p.names[v], p.operand(d.ptr), p.operand(d.rhs))
	case KGetPtr:
		return fmt.Sprintf("%s = getptr %s, %s", p.names[v], p.operand(d.ptr), p.operand(d.rhs))
	default:
		return "<unknown instruction>"
	}
}

func (p *Program) blockName(id BlockID) string {
	return p.printFunc.Blocks[id].Name
}
