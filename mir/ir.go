/*
 * Copyright 2023 SPTools Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mir

import (
    `fmt`
    `strings`
)

// RegClass identifies the register file a register belongs to.
type RegClass uint8

const (
    ClassNone RegClass = iota
    ClassGen
    ClassPred
)

func (self RegClass) String() string {
    switch self {
        case ClassGen  : return "gen"
        case ClassPred : return "pred"
        default        : return "none"
    }
}

// Reg is a register handle, packing the register class and a
// class-local register number. Number 0 of each class is reserved
// for the hardwired register of that class.
type Reg uint32

const (
    // NoReg is the zero register handle.
    NoReg Reg = 0
)

// PregAlways is the hardwired always-true predicate register. An
// instruction guarded by PregAlways is considered unpredicated.
var PregAlways = MkReg(ClassPred, 0)

func MkReg(cc RegClass, id int) Reg {
    return Reg(uint32(cc) << 28 | uint32(id) & 0x0fffffff)
}

func (self Reg) Id() int {
    return int(self & 0x0fffffff)
}

func (self Reg) Class() RegClass {
    return RegClass(self >> 28)
}

func (self Reg) String() string {
    switch self.Class() {
        case ClassGen  : return fmt.Sprintf("r%d", self.Id())
        case ClassPred : return fmt.Sprintf("p%d", self.Id())
        default        : return "-"
    }
}

// OperandKind distinguishes register from immediate operands.
type OperandKind uint8

const (
    Kreg OperandKind = iota
    Kimm
)

type Operand struct {
    Kind OperandKind
    Reg  Reg
    Imm  int64
    Kill bool
}

// Rn constructs a register operand.
func Rn(r Reg) Operand {
    return Operand { Kind: Kreg, Reg: r }
}

// Im constructs an immediate operand.
func Im(v int64) Operand {
    return Operand { Kind: Kimm, Imm: v }
}

func (self Operand) String() string {
    if self.Kind == Kimm {
        return fmt.Sprintf("#%d", self.Imm)
    } else {
        return self.Reg.String()
    }
}

type Op uint8

const (
    OP_nop Op = iota
    OP_mov
    OP_add
    OP_sub
    OP_mul
    OP_load
    OP_store
    OP_cmp
    OP_call
    OP_phi
    OP_implicit
    OP_pclr
    OP_pmov
    OP_psel
    OP_bbend
    OP_loopbound
    OP_br
    OP_brcond
    OP_ret
)

var _OpNames = [...]string {
    OP_nop       : "nop",
    OP_mov       : "mov",
    OP_add       : "add",
    OP_sub       : "sub",
    OP_mul       : "mul",
    OP_load      : "load",
    OP_store     : "store",
    OP_cmp       : "cmp",
    OP_call      : "call",
    OP_phi       : "phi",
    OP_implicit  : "implicit",
    OP_pclr      : "pclr",
    OP_pmov      : "pmov",
    OP_psel      : "psel",
    OP_bbend     : "bbend",
    OP_loopbound : "loopbound",
    OP_br        : "br",
    OP_brcond    : "brif",
    OP_ret       : "ret",
}

func (self Op) String() string {
    if int(self) < len(_OpNames) {
        return _OpNames[self]
    } else {
        return fmt.Sprintf("op_%d", self)
    }
}

func (self Op) isTerminator() bool {
    return self == OP_br || self == OP_brcond || self == OP_ret
}

func (self Op) isPredicable() bool {
    switch self {
        case OP_mov   : fallthrough
        case OP_add   : fallthrough
        case OP_sub   : fallthrough
        case OP_mul   : fallthrough
        case OP_load  : fallthrough
        case OP_store : fallthrough
        case OP_cmp   : fallthrough
        case OP_pclr  : fallthrough
        case OP_pmov  : fallthrough
        case OP_psel  : return true
        default       : return false
    }
}

// Instr is a single machine instruction. Predicable instructions
// carry their guard as the trailing (register, negate) operand pair;
// branch instructions refer to their target block via To.
type Instr struct {
    Op      Op
    Ops     []Operand
    To      *Block
    Bundled bool

    // CallFixup is set on call instructions that were deliberately
    // left unguarded during predication, for the host ABI layer.
    CallFixup bool
}

// NewInstr creates an instruction, appending the default guard pair
// to predicable opcodes.
func NewInstr(op Op, args ...Operand) *Instr {
    p := &Instr { Op: op, Ops: args }
    if op.isPredicable() {
        p.Ops = append(p.Ops, Rn(PregAlways), Im(0))
    }
    return p
}

func NewBranch(to *Block) *Instr {
    return &Instr { Op: OP_br, To: to }
}

func NewCondBranch(c Reg, neg int64, to *Block) *Instr {
    return &Instr { Op: OP_brcond, To: to, Ops: []Operand { Rn(c), Im(neg) } }
}

func NewReturn() *Instr {
    return &Instr { Op: OP_ret }
}

func NewLoopBound(n int64) *Instr {
    return &Instr { Op: OP_loopbound, Ops: []Operand { Im(n) } }
}

func (self *Instr) IsTerminator() bool { return self.Op.isTerminator() }
func (self *Instr) IsBranch() bool     { return self.Op == OP_br || self.Op == OP_brcond }
func (self *Instr) IsReturn() bool     { return self.Op == OP_ret }
func (self *Instr) IsCall() bool       { return self.Op == OP_call }
func (self *Instr) IsPhi() bool        { return self.Op == OP_phi }
func (self *Instr) IsPredicable() bool { return self.Op.isPredicable() }

// PredIndex returns the operand index of the guard register, or -1
// if the instruction carries no guard pair.
func (self *Instr) PredIndex() int {
    if !self.Op.isPredicable() || len(self.Ops) < 2 {
        return -1
    } else {
        return len(self.Ops) - 2
    }
}

// IsPredicated reports whether the instruction is guarded by anything
// other than the always-true predicate.
func (self *Instr) IsPredicated() bool {
    if i := self.PredIndex(); i == -1 {
        return false
    } else {
        return self.Ops[i].Reg != PregAlways
    }
}

// Pred returns the guard pair of a predicable instruction.
func (self *Instr) Pred() (Reg, int64) {
    if i := self.PredIndex(); i == -1 {
        return NoReg, 0
    } else {
        return self.Ops[i].Reg, self.Ops[i + 1].Imm
    }
}

// SetPred overwrites the guard pair of a predicable instruction.
func (self *Instr) SetPred(r Reg, neg int64) {
    i := self.PredIndex()
    if i == -1 {
        panic("mir: instruction carries no predicate operands")
    }
    self.Ops[i] = Rn(r)
    self.Ops[i + 1] = Im(neg)
}

// Defs returns the registers defined by this instruction.
func (self *Instr) Defs() []Reg {
    switch self.Op {
        case OP_mov, OP_add, OP_sub, OP_mul, OP_load,
             OP_cmp, OP_phi, OP_implicit, OP_pclr, OP_pmov, OP_psel:
            return []Reg { self.Ops[0].Reg }
        default:
            return nil
    }
}

func (self *Instr) String() string {
    switch self.Op {
        case OP_ret    : return "ret"
        case OP_br     : return fmt.Sprintf("br %s", self.To)
        case OP_brcond : return fmt.Sprintf("brif %s, %s", condstr(self.Ops[0].Reg, self.Ops[1].Imm), self.To)
        case OP_phi    : return self.phistr()
        default        : return self.genstr()
    }
}

func (self *Instr) phistr() string {
    ss := []string { self.Ops[0].String() }
    for i := 1; i < len(self.Ops); i += 2 {
        ss = append(ss, fmt.Sprintf("[%s, bb_%d]", self.Ops[i], self.Ops[i + 1].Imm))
    }
    return "phi " + strings.Join(ss, ", ")
}

func (self *Instr) genstr() string {
    np := len(self.Ops)
    pfx := ""

    /* split off the guard pair */
    if i := self.PredIndex(); i != -1 {
        np = i
        pfx = fmt.Sprintf("(%s) ", condstr(self.Ops[i].Reg, self.Ops[i + 1].Imm))
    }

    /* no operands at all */
    if np == 0 {
        return pfx + self.Op.String()
    }

    /* format the remaining operands */
    ss := make([]string, 0, np)
    for _, v := range self.Ops[:np] {
        ss = append(ss, v.String())
    }
    return fmt.Sprintf("%s%s %s", pfx, self.Op, strings.Join(ss, ", "))
}

func condstr(r Reg, neg int64) string {
    if neg != 0 {
        return "!" + r.String()
    } else {
        return r.String()
    }
}
