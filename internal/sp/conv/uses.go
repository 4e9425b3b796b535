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

package conv

import (
    `github.com/oleiade/lane`

    `github.com/sptools/singlepath/mir`
)

// computeUpwardsExposedUses solves a backward dataflow problem over
// the whole function CFG to find the scope's predicates whose use at
// some block is reachable from the function entry without passing a
// definition. Those predicates must be cleared at entry; every other
// predicate is defined on every path before its first use.
func computeUpwardsExposedUses(fn *mir.Func, s *Scope) _BitVec {
    np := s.PredCount
    gen := make(map[int]_BitVec, len(fn.Blocks))
    kill := make(map[int]_BitVec, len(fn.Blocks))

    /* a block generates its own uses and kills what it defines;
     * blocks outside the scope only pass values through */
    for _, bb := range fn.Blocks {
        g := newBitVec(np)
        k := newBitVec(np)
        for _, p := range s.PredUse[bb.Id] {
            g.set(p)
        }
        for _, d := range s.PredDefs[bb.Id] {
            k.set(d.Pred)
        }
        gen[bb.Id] = g
        kill[bb.Id] = k
    }

    /* seed the worklist in depth-first post-order, In = gen */
    bvin := make(map[int]_BitVec, len(fn.Blocks))
    wl := lane.NewQueue()
    for _, bb := range fn.Postorder() {
        wl.Enqueue(bb)
        bvin[bb.Id] = gen[bb.Id].clone()
    }

    /* the first element (the function exit in a loop-free function,
     * possibly a latch otherwise) gets In = top and leaves the worklist */
    head := wl.Dequeue().(*mir.Block)
    bvin[head.Id].setAll()

    /* iterate to the fixed point */
    for !wl.Empty() {
        bb := wl.Dequeue().(*mir.Block)
        out := newBitVec(np)
        for _, sb := range bb.Succ {
            out.or(bvin[sb.Id])
        }
        out.reset(kill[bb.Id])
        out.or(gen[bb.Id])
        if out.equal(bvin[bb.Id]) {
            continue
        }
        bvin[bb.Id] = out
        for _, pb := range bb.Pred {
            wl.Enqueue(pb)
        }
    }

    /* predicates without real defining edges are never materialized,
     * so they cannot require initialization either */
    init := bvin[fn.Entry().Id].clone()
    for i := 0; i < np; i++ {
        if init.test(i) && len(s.defEdges(i)) == 0 {
            clr := newBitVec(np)
            clr.set(i)
            init.reset(clr)
        }
    }
    return init
}
