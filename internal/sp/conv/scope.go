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

// Scope is a node of the scope tree: the whole function at the root,
// one scope per natural loop below it. Blocks holds the header first;
// after analysis the list is in reverse-post-order of the scope FCFG.
// A nested scope's header also appears in the parent's block list,
// standing in for the whole subscope.
type Scope struct {
    Parent    *Scope
    Depth     int
    LoopBound int
    Blocks    []*mir.Block
    Latches   []*mir.Block
    ExitEdges []mir.Edge
    Subscopes []*Scope
    HeaderMap map[int]*Scope

    fcfg   *_FCFG
    member map[int]bool

    /* analysis results, valid after computePredInfos */
    PredCount int
    CD        map[int][]_DepEdge
    PredUse   map[int][]int
    PredDefs  map[int][]_PredDef
    kk        [][]_DepEdge
}

// _PredDef records that taking Edge assigns the branch condition to
// predicate Pred. Defines of a block are kept in predicate order.
type _PredDef struct {
    Pred int
    Edge mir.Edge
}

func newRootScope(entry *mir.Block) *Scope {
    return &Scope {
        LoopBound : -1,
        Blocks    : []*mir.Block { entry },
        HeaderMap : make(map[int]*Scope),
        member    : make(map[int]bool),
    }
}

func newLoopScope(parent *Scope, lp *mir.Loop) *Scope {
    s := &Scope {
        Parent    : parent,
        Depth     : parent.Depth + 1,
        LoopBound : -1,
        Blocks    : []*mir.Block { lp.Header },
        Latches   : lp.Latches,
        ExitEdges : lp.ExitEdges(),
        HeaderMap : make(map[int]*Scope),
        member    : make(map[int]bool),
    }

    /* register with the parent, the header stands in for the whole
     * loop in the parent's block list */
    parent.HeaderMap[lp.Header.Id] = s
    parent.Subscopes = append(parent.Subscopes, s)
    parent.addBlock(lp.Header)

    /* scan the header for the loop bound pseudo: it encodes the
     * maximum number of taken back-edges, the bound counts header
     * visits, hence the +1 */
    for _, ins := range lp.Header.Ins {
        if ins.Op == mir.OP_loopbound {
            s.LoopBound = int(ins.Ops[0].Imm) + 1
            break
        }
    }
    return s
}

func (self *Scope) header() *mir.Block {
    return self.Blocks[0]
}

func (self *Scope) addBlock(bb *mir.Block) {
    if self.Blocks[0] != bb {
        self.Blocks = append(self.Blocks, bb)
    }
}

func (self *Scope) isMember(bb *mir.Block) bool {
    return self.member[bb.Id]
}

func (self *Scope) isSubHeader(bb *mir.Block) bool {
    _, ok := self.HeaderMap[bb.Id]
    return ok
}

/* getDual returns the other outgoing host edge of a binary branch */
func (self *Scope) getDual(e mir.Edge) mir.Edge {
    if len(e.Src.Succ) != 2 {
        panic("conv: exit edge source is not a binary branch")
    }
    for _, sb := range e.Src.Succ {
        if sb != e.Dst {
            return mir.Edge { Src: e.Src, Dst: sb }
        }
    }
    panic("conv: no dual edge found")
}

// buildScopeTree lays the scope tree over fn: the root scope owns
// every block outside any loop, each loop becomes a scope under the
// scope of its parent loop.
func buildScopeTree(fn *mir.Func, lf *mir.LoopForest) *Scope {
    root := newRootScope(fn.Entry())
    byloop := make(map[*mir.Loop]*Scope)

    /* create the scopes top-down */
    var mk func(parent *Scope, lp *mir.Loop)
    mk = func(parent *Scope, lp *mir.Loop) {
        s := newLoopScope(parent, lp)
        byloop[lp] = s
        for _, v := range lp.Children {
            mk(s, v)
        }
    }
    for _, lp := range lf.Top {
        mk(root, lp)
    }

    /* every block joins its innermost scope */
    for _, bb := range fn.Blocks {
        if lp := lf.Innermost[bb.Id]; lp != nil {
            byloop[lp].addBlock(bb)
        } else {
            root.addBlock(bb)
        }
    }

    /* membership tables */
    var seal func(s *Scope)
    seal = func(s *Scope) {
        for _, bb := range s.Blocks {
            s.member[bb.Id] = true
        }
        for _, v := range s.Subscopes {
            seal(v)
        }
    }
    seal(root)
    return root
}

// computePredInfos runs the per-scope analysis chain: FCFG
// construction, topological ordering, post-dominators, control
// dependence, and decomposition into K and R.
func (self *Scope) computePredInfos() {
    self.buildfcfg()
    self.toposort()
    self.fcfg.postdominators()
    self.ctrldep()
    self.decompose()
}
