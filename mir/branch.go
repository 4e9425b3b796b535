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

// BranchInfo describes the branching shape of a block terminator
// sequence. For a conditional branch, Cond holds the condition as a
// (register, negate) operand pair and always refers to the TBB edge.
type BranchInfo struct {
    TBB  *Block
    FBB  *Block
    Cond []Operand
}

// AnalyzeBranch recovers the branch shape of a block. It understands
// fall-through blocks, unconditional branches, and conditional
// branches with either a fall-through or a trailing unconditional
// branch. Everything else is reported as unanalyzable.
func AnalyzeBranch(bb *Block) (BranchInfo, bool) {
    tv := bb.Ins[bb.FirstTerminator():]

    /* pure fall-through block */
    if len(tv) == 0 {
        if len(bb.Succ) == 1 {
            return BranchInfo { TBB: bb.Succ[0] }, true
        } else {
            return BranchInfo{}, false
        }
    }

    /* single terminator */
    if len(tv) == 1 {
        switch tv[0].Op {
            case OP_ret:
                return BranchInfo{}, true
            case OP_br:
                return BranchInfo { TBB: tv[0].To }, true
            case OP_brcond:
                return analyzeCond(bb, tv[0], nil)
        }
        return BranchInfo{}, false
    }

    /* conditional plus unconditional */
    if len(tv) == 2 && tv[0].Op == OP_brcond && tv[1].Op == OP_br {
        return analyzeCond(bb, tv[0], tv[1].To)
    }
    return BranchInfo{}, false
}

func analyzeCond(bb *Block, br *Instr, fbb *Block) (BranchInfo, bool) {
    tbb := br.To
    cond := []Operand { br.Ops[0], br.Ops[1] }

    /* fall-through case: the false target is the successor that is
     * not the branch target */
    if fbb == nil {
        for _, sb := range bb.Succ {
            if sb != tbb {
                fbb = sb
                break
            }
        }
    }

    /* a conditional branch must have both outcomes */
    if fbb == nil {
        return BranchInfo{}, false
    }
    return BranchInfo { TBB: tbb, FBB: fbb, Cond: cond }, true
}

// ReverseCond returns the semantic negation of a branch condition.
func ReverseCond(cond []Operand) []Operand {
    return []Operand {
        cond[0],
        Im(cond[1].Imm ^ 1),
    }
}
