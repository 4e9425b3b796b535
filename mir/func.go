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

// Edge is an ordered pair of blocks denoting a CFG edge. A nil Src
// encodes a synthetic pseudo-edge.
type Edge struct {
    Src *Block
    Dst *Block
}

func (self Edge) String() string {
    if self.Src == nil {
        return fmt.Sprintf("(-, %s)", self.Dst)
    } else {
        return fmt.Sprintf("(%s, %s)", self.Src, self.Dst)
    }
}

// Func is a machine function: a list of basic blocks, the first of
// which is the entry block, plus the virtual register counters.
type Func struct {
    Name   string
    Blocks []*Block
    nregs  [3]int
}

func NewFunc(name string) *Func {
    return &Func {
        Name  : name,
        nregs : [3]int { 1, 1, 1 },
    }
}

func (self *Func) Entry() *Block {
    return self.Blocks[0]
}

// NewBlock appends a fresh, empty block to the function.
func (self *Func) NewBlock() *Block {
    bb := &Block { Id: len(self.Blocks) }
    self.Blocks = append(self.Blocks, bb)
    return bb
}

// CreateReg allocates a fresh virtual register in the given class.
// Register numbering is monotonic, so two identical runs allocate
// identical registers.
func (self *Func) CreateReg(cc RegClass) Reg {
    r := MkReg(cc, self.nregs[cc])
    self.nregs[cc]++
    return r
}

// NumRegs returns the number of registers allocated in the class,
// including the reserved register 0.
func (self *Func) NumRegs(cc RegClass) int {
    return self.nregs[cc]
}

// IsPredClass reports whether the register class holds predicates.
func (self *Func) IsPredClass(cc RegClass) bool {
    return cc == ClassPred
}

// ClearKillFlags removes the kill marker from every operand that
// reads r. Several predicate definitions may read the same condition
// register, so a stale kill on the first read would be wrong.
func (self *Func) ClearKillFlags(r Reg) {
    for _, bb := range self.Blocks {
        for _, ins := range bb.Ins {
            for i := range ins.Ops {
                if ins.Ops[i].Kind == Kreg && ins.Ops[i].Reg == r {
                    ins.Ops[i].Kill = false
                }
            }
        }
    }
}

// Postorder returns the blocks in depth-first post-order, following
// successor lists in order from the entry block.
func (self *Func) Postorder() []*Block {
    vis := make(map[int]bool, len(self.Blocks))
    out := make([]*Block, 0, len(self.Blocks))

    /* recursive DFS, successors in list order */
    var walk func(bb *Block)
    walk = func(bb *Block) {
        vis[bb.Id] = true
        for _, sb := range bb.Succ {
            if !vis[sb.Id] {
                walk(sb)
            }
        }
        out = append(out, bb)
    }

    /* start from the entry block */
    walk(self.Entry())
    return out
}

func (self *Func) String() string {
    ss := make([]string, 0, len(self.Blocks))
    for _, bb := range self.Blocks {
        ss = append(ss, bb.Dump())
    }
    return fmt.Sprintf("%s {\n%s\n}", self.Name, strings.Join(ss, "\n"))
}
