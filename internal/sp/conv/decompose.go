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

// decompose compresses the control-dependence sets by equality into
// the predicate list K and the per-block predicate-use map R.
// Predicate numbering follows first encounter in block RPO, so the
// header's predicate is always p0.
func (self *Scope) decompose() {
    var kk [][]_DepEdge
    self.PredUse = make(map[int][]int, len(self.Blocks))

    /* deliberately quadratic: K stays small, bounded by the number of
     * distinct conditional outcomes in the scope */
    for _, bb := range self.Blocks {
        t := self.CD[bb.Id]
        q := -1
        for i := range kk {
            if depsetEqual(t, kk[i]) {
                q = i
                break
            }
        }
        if q == -1 {
            kk = append(kk, t)
            q = len(kk) - 1
        }
        self.PredUse[bb.Id] = append(self.PredUse[bb.Id], q)
    }
    self.PredCount = len(kk)
    self.kk = kk

    /* record the defining edges on their source blocks, skipping the
     * pseudo-edge: it stands for the implicit "scope entered"
     * condition and defines nothing */
    self.PredDefs = make(map[int][]_PredDef)
    for i, t := range kk {
        for _, de := range t {
            if de.node == self.fcfg.nentry && de.edge.Src == nil {
                continue
            }
            src := de.edge.Src.Id
            self.PredDefs[src] = append(self.PredDefs[src], _PredDef { Pred: i, Edge: de.edge })
        }
    }
}

// usesPred reports whether the block uses predicate i.
func (self *Scope) usesPred(id int, i int) bool {
    for _, p := range self.PredUse[id] {
        if p == i {
            return true
        }
    }
    return false
}

// defEdges returns the real defining edges of predicate i, in
// insertion order.
func (self *Scope) defEdges(i int) []_DepEdge {
    var ret []_DepEdge
    for _, de := range self.kk[i] {
        if de.node != self.fcfg.nentry || de.edge.Src != nil {
            ret = append(ret, de)
        }
    }
    return ret
}
