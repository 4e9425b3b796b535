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

/** Incremental SSA updater for a single virtual register, with
 *  on-demand phi creation in the style described by Braun et al.,
 *  "Simple and Efficient Construction of Static Single Assignment
 *  Form" (CC 2013).
 */

package ssa

import (
    `github.com/sptools/singlepath/mir`
)

type _PhiRec struct {
    bb  *mir.Block
    ins *mir.Instr
}

// Updater rewires uses of a single conceptual variable to the correct
// SSA value per block, materializing phi instructions at join points
// as needed. Usage: Initialize, any number of AddAvailableValue, then
// GetValueAtEndOfBlock queries.
type Updater struct {
    fn    *mir.Func
    cc    mir.RegClass
    phis  []_PhiRec
    avail map[int]mir.Reg
}

func NewUpdater(fn *mir.Func) *Updater {
    return &Updater { fn: fn }
}

// Initialize resets the updater for a new variable, taking the
// register class from r.
func (self *Updater) Initialize(r mir.Reg) {
    self.cc = r.Class()
    self.phis = nil
    self.avail = make(map[int]mir.Reg)
}

// AddAvailableValue records that r carries the variable's value at
// the end of bb.
func (self *Updater) AddAvailableValue(bb *mir.Block, r mir.Reg) {
    self.avail[bb.Id] = r
}

// GetValueAtEndOfBlock returns the register holding the variable's
// value at the end of bb, inserting phi instructions where paths with
// different values merge.
func (self *Updater) GetValueAtEndOfBlock(bb *mir.Block) mir.Reg {
    return self.getvalue(bb)
}

func (self *Updater) getvalue(bb *mir.Block) mir.Reg {
    if r, ok := self.avail[bb.Id]; ok {
        return r
    }

    /* the entry block was reached without a definition, the value is
     * undefined on this path */
    if len(bb.Pred) == 0 {
        r := self.fn.CreateReg(self.cc)
        bb.Insert(0, mir.NewInstr(mir.OP_implicit, mir.Rn(r)))
        self.avail[bb.Id] = r
        return r
    }

    /* single predecessor, no merge needed */
    if len(bb.Pred) == 1 {
        r := self.getvalue(bb.Pred[0])
        self.avail[bb.Id] = r
        return r
    }

    /* join point: place an operand-less phi first, so that cyclic
     * lookups terminate on it */
    r := self.fn.CreateReg(self.cc)
    phi := &mir.Instr { Op: mir.OP_phi, Ops: []mir.Operand { mir.Rn(r) } }
    bb.Insert(0, phi)
    self.avail[bb.Id] = r
    self.phis = append(self.phis, _PhiRec { bb: bb, ins: phi })

    /* fill the incoming values, predecessors in list order */
    for _, pb := range bb.Pred {
        v := self.getvalue(pb)
        phi.Ops = append(phi.Ops, mir.Rn(v), mir.Im(int64(pb.Id)))
    }

    /* the phi may be trivial, and removing it may expose further
     * trivial phis among the ones created on the way; replacements
     * keep the avail table current, so re-read it afterwards */
    self.reduce(phi, r)
    self.cleanup()
    return self.avail[bb.Id]
}

/* trivial returns the unique non-self incoming value of a phi, or
 * NoReg if the phi actually merges distinct values */
func trivial(phi *mir.Instr, r mir.Reg) mir.Reg {
    same := mir.NoReg
    for i := 1; i < len(phi.Ops); i += 2 {
        v := phi.Ops[i].Reg
        if v == r || v == same {
            continue
        }
        if same != mir.NoReg {
            return mir.NoReg
        }
        same = v
    }
    return same
}

/* reduce drops phi if trivial, rerouting its uses, and returns the
 * register that now carries the value */
func (self *Updater) reduce(phi *mir.Instr, r mir.Reg) mir.Reg {
    same := trivial(phi, r)
    if same == mir.NoReg {
        return r
    }
    self.unlink(phi)
    self.replace(r, same)
    return same
}

/* cleanup keeps reducing until no trivial phi remains */
func (self *Updater) cleanup() {
    for again := true; again; {
        again = false
        for _, pr := range self.phis {
            rr := pr.ins.Ops[0].Reg
            if self.reduce(pr.ins, rr) != rr {
                again = true
                break
            }
        }
    }
}

func (self *Updater) unlink(phi *mir.Instr) {
    for i, pr := range self.phis {
        if pr.ins != phi {
            continue
        }
        self.phis = append(self.phis[:i], self.phis[i + 1:]...)
        for j, ins := range pr.bb.Ins {
            if ins == phi {
                pr.bb.Ins = append(pr.bb.Ins[:j], pr.bb.Ins[j + 1:]...)
                break
            }
        }
        return
    }
}

func (self *Updater) replace(old mir.Reg, new mir.Reg) {
    for k, v := range self.avail {
        if v == old {
            self.avail[k] = new
        }
    }
    for _, pr := range self.phis {
        ops := pr.ins.Ops
        for i := 1; i < len(ops); i += 2 {
            if ops[i].Reg == old {
                ops[i].Reg = new
            }
        }
    }
}
