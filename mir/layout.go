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

// FuncLayout is a straight-line schedule of a function: the flattened
// instruction sequence, the block order, the starting position of
// every block, and the reverse lookup from positions to blocks.
type FuncLayout struct {
    Ins   []*Instr
    Order []*Block
    Start map[int]int
    Block map[int]*Block
}

func (self *FuncLayout) String() string {
    var sb strings.Builder

    /* one section per block, instructions with their positions in
     * the flattened schedule */
    sb.WriteString("layout {\n")
    for _, bb := range self.Order {
        at := self.Start[bb.Id]
        fmt.Fprintf(&sb, "  bb_%d:\n", bb.Id)
        for i, ins := range bb.Ins {
            fmt.Fprintf(&sb, "  %5d  %s\n", at + i, ins)
        }
    }
    sb.WriteString("}")
    return sb.String()
}
