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

// Block is a basic block: an instruction sequence with a suffix of
// terminators, plus ordered predecessor and successor lists. For a
// conditional branch, the branch target precedes the fall-through
// successor in Succ.
type Block struct {
    Id   int
    Ins  []*Instr
    Pred []*Block
    Succ []*Block
}

func (self *Block) String() string {
    return fmt.Sprintf("bb_%d", self.Id)
}

// FirstNonPhi returns the index of the first non-phi instruction.
func (self *Block) FirstNonPhi() int {
    for i, v := range self.Ins {
        if !v.IsPhi() {
            return i
        }
    }
    return len(self.Ins)
}

// FirstTerminator returns the index at which the terminator suffix
// begins, or len(Ins) if the block has no terminators.
func (self *Block) FirstTerminator() int {
    i := len(self.Ins)
    for i > 0 && self.Ins[i - 1].IsTerminator() {
        i--
    }
    return i
}

// Insert places p at instruction index i.
func (self *Block) Insert(i int, p *Instr) {
    self.Ins = append(self.Ins, nil)
    copy(self.Ins[i + 1:], self.Ins[i:])
    self.Ins[i] = p
}

// Append adds p at the end of the block.
func (self *Block) Append(p *Instr) {
    self.Ins = append(self.Ins, p)
}

func (self *Block) Dump() string {
    ss := make([]string, 0, len(self.Ins) + 1)
    ss = append(ss, fmt.Sprintf("bb_%d:", self.Id))
    for _, v := range self.Ins {
        ss = append(ss, "    " + v.String())
    }
    return strings.Join(ss, "\n")
}

// Connect adds a CFG edge from src to dst, keeping both adjacency
// lists in insertion order.
func Connect(src *Block, dst *Block) {
    src.Succ = append(src.Succ, dst)
    dst.Pred = append(dst.Pred, src)
}
