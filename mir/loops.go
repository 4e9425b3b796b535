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
    `sort`

    `github.com/oleiade/lane`
)

// Loop is a natural loop: a header block, the set of blocks forming
// the loop body, and the latches jumping back to the header. Blocks
// and Latches are in reverse-post-order of the enclosing function.
type Loop struct {
    Header   *Block
    Parent   *Loop
    Children []*Loop
    Blocks   []*Block
    Latches  []*Block
    Depth    int
    member   map[int]bool
}

// Contains reports whether bb belongs to the loop body.
func (self *Loop) Contains(bb *Block) bool {
    return self.member[bb.Id]
}

// ExitEdges returns every edge leaving the loop body, source blocks
// in body order, targets in successor order.
func (self *Loop) ExitEdges() []Edge {
    var ret []Edge
    for _, bb := range self.Blocks {
        for _, sb := range bb.Succ {
            if !self.member[sb.Id] {
                ret = append(ret, Edge { Src: bb, Dst: sb })
            }
        }
    }
    return ret
}

// LoopForest is the loop nest of a function.
type LoopForest struct {
    Top       []*Loop
    ByHeader  map[int]*Loop
    Innermost map[int]*Loop
}

// FindLoops derives the natural-loop forest of fn from its dominator
// tree. The function must be reducible: every retreating edge must
// target a block that dominates its source, otherwise an
// IrreducibleError is returned.
func FindLoops(fn *Func, dt DomTree) (*LoopForest, error) {
    po := fn.Postorder()
    rpo := make(map[int]int, len(po))

    /* number the blocks in reverse-post-order */
    for i, bb := range po {
        rpo[bb.Id] = len(po) - 1 - i
    }

    /* identify the back edges, headers in the RPO order of their
     * first latch */
    var hdrs []*Block
    latches := make(map[int][]*Block)
    for i := len(po) - 1; i >= 0; i-- {
        bb := po[i]
        for _, sb := range bb.Succ {
            if rpo[sb.Id] > rpo[bb.Id] {
                continue
            }
            if !dt.Dominates(sb, bb) {
                return nil, IrreducibleError { Func: fn.Name, Latch: bb.Id, Header: sb.Id }
            }
            if len(latches[sb.Id]) == 0 {
                hdrs = append(hdrs, sb)
            }
            latches[sb.Id] = append(latches[sb.Id], bb)
        }
    }

    /* collect the loop body of every header by walking the CFG
     * backwards from the latches */
    loops := make([]*Loop, 0, len(hdrs))
    for _, hh := range hdrs {
        lp := &Loop {
            Header : hh,
            member : map[int]bool { hh.Id: true },
        }

        /* blocks that reach a latch without passing the header */
        q := lane.NewQueue()
        for _, bb := range latches[hh.Id] {
            q.Enqueue(bb)
        }
        for !q.Empty() {
            bb := q.Dequeue().(*Block)
            if lp.member[bb.Id] {
                continue
            }
            lp.member[bb.Id] = true
            for _, pb := range bb.Pred {
                q.Enqueue(pb)
            }
        }

        /* body and latches in function RPO */
        for i := len(po) - 1; i >= 0; i-- {
            if lp.member[po[i].Id] {
                lp.Blocks = append(lp.Blocks, po[i])
            }
        }
        lp.Latches = latches[hh.Id]
        sort.Slice(lp.Latches, func(i int, j int) bool {
            return rpo[lp.Latches[i].Id] < rpo[lp.Latches[j].Id]
        })
        loops = append(loops, lp)
    }

    /* nest the loops, smallest bodies first: the parent of a loop is
     * the smallest strictly larger loop containing its header */
    bysize := make([]*Loop, len(loops))
    copy(bysize, loops)
    sort.SliceStable(bysize, func(i int, j int) bool {
        return len(bysize[i].Blocks) < len(bysize[j].Blocks)
    })
    for i, lp := range bysize {
        for _, up := range bysize[i + 1:] {
            if up.member[lp.Header.Id] {
                lp.Parent = up
                break
            }
        }
    }

    /* attach children in header RPO order, compute depths */
    ret := &LoopForest {
        ByHeader  : make(map[int]*Loop, len(loops)),
        Innermost : make(map[int]*Loop),
    }
    for _, lp := range loops {
        ret.ByHeader[lp.Header.Id] = lp
        if lp.Parent == nil {
            ret.Top = append(ret.Top, lp)
        } else {
            lp.Parent.Children = append(lp.Parent.Children, lp)
        }
    }
    for _, lp := range ret.Top {
        setdepth(lp, 1)
    }

    /* innermost containing loop of every block: smallest body wins */
    for _, lp := range bysize {
        for _, bb := range lp.Blocks {
            if _, ok := ret.Innermost[bb.Id]; !ok {
                ret.Innermost[bb.Id] = lp
            }
        }
    }
    return ret, nil
}

func setdepth(lp *Loop, d int) {
    lp.Depth = d
    for _, v := range lp.Children {
        setdepth(v, d + 1)
    }
}
