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
    `github.com/sptools/singlepath/mir`
)

// _DepEdge is one element of a control-dependence set: the FCFG node
// the dependence originates from and the host edge that decides it.
// The node is the synthetic entry for the pseudo-edge dependence.
type _DepEdge struct {
    node *_FNode
    edge mir.Edge
}

func (self _DepEdge) equal(other _DepEdge) bool {
    return self.node == other.node &&
           self.edge.Src == other.edge.Src &&
           self.edge.Dst == other.edge.Dst
}

func depsetEqual(a []_DepEdge, b []_DepEdge) bool {
    if len(a) != len(b) {
        return false
    }
    for i := range a {
        if !a[i].equal(b[i]) {
            return false
        }
    }
    return true
}

// ctrldep derives, for every block of the scope, the set of
// (node, edge) pairs it is control-dependent on.
func (self *Scope) ctrldep() {
    self.CD = make(map[int][]_DepEdge)
    vis := make(map[*_FNode]bool)

    /* blocks between a branch and its immediate post-dominator are
     * control-dependent on the branch; visit nodes depth-first so the
     * sets accumulate in one deterministic order */
    var walk func(n *_FNode)
    walk = func(n *_FNode) {
        vis[n] = true
        if len(n.succs) >= 2 {
            for i, s := range n.succs {
                if e := n.tags[i]; e != nil {
                    self.walkpdt(n, s, *e, n)
                }
            }
        }
        for _, s := range n.succs {
            if !vis[s] {
                walk(s)
            }
        }
    }
    walk(self.fcfg.nentry)

    /* every tagged exit edge hides a second dependence: the scope
     * keeps iterating precisely when the exit branch is not taken, so
     * the dual edge guards the header spine */
    for _, p := range self.fcfg.nexit.preds {
        e := p.edgeto(self.fcfg.nexit)
        if e == nil {
            continue
        }
        dual := self.getDual(*e)
        self.walkpdt(self.fcfg.nentry, self.fcfg.getNodeFor(self.header()), dual, p)
    }
}

/* walkpdt charges (src, e) to every node on the post-dominator chain
 * from b up to, but not including, ipdom(a) */
func (self *Scope) walkpdt(a *_FNode, b *_FNode, e mir.Edge, src *_FNode) {
    for t := b; t != a.ipdom; t = t.ipdom {
        if t == self.fcfg.nexit {
            panic("conv: control dependence walked past the exit node")
        }
        self.cdInsert(t.mbb.Id, _DepEdge { node: src, edge: e })
    }
}

func (self *Scope) cdInsert(id int, de _DepEdge) {
    for _, v := range self.CD[id] {
        if v.equal(de) {
            return
        }
    }
    self.CD[id] = append(self.CD[id], de)
}
