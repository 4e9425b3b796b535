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
    `fmt`

    `github.com/sptools/singlepath/mir`
)

// _FNode is a node of the per-scope flow graph. Synthetic entry and
// exit nodes have a nil mbb. Edges carry an optional tag: the host
// CFG edge they stand for. Back-edges are rerouted to the exit node
// untagged, exit edges tagged.
type _FNode struct {
    mbb   *mir.Block
    num   int
    ipdom *_FNode
    preds []*_FNode
    succs []*_FNode
    tags  []*mir.Edge
}

func (self *_FNode) connect(ns *_FNode, tag *mir.Edge) {
    self.succs = append(self.succs, ns)
    self.tags = append(self.tags, tag)
    ns.preds = append(ns.preds, self)
}

/* edgeto returns the tag of the first tagged edge to t, if any */
func (self *_FNode) edgeto(t *_FNode) *mir.Edge {
    for i, s := range self.succs {
        if s == t && self.tags[i] != nil {
            return self.tags[i]
        }
    }
    return nil
}

func (self *_FNode) name() string {
    switch {
        case self.mbb != nil : return fmt.Sprintf("bb_%d<%d>", self.mbb.Id, self.num)
        case self.preds == nil : return fmt.Sprintf("_S<%d>", self.num)
        default : return fmt.Sprintf("_T<%d>", self.num)
    }
}

// _FCFG is the reduced flow graph of one scope: the scope's blocks
// plus a synthetic entry and exit. The entry connects to the header
// through the tagged pseudo-edge and to the exit through an untagged
// bypass, so that ipdom(nentry) is the exit and both the pseudo-edge
// and the exit dual edges take part in control dependence.
type _FCFG struct {
    nentry *_FNode
    nexit  *_FNode
    nodes  map[int]*_FNode
}

func newFCFG(header *mir.Block) *_FCFG {
    g := &_FCFG {
        nentry : new(_FNode),
        nexit  : new(_FNode),
        nodes  : make(map[int]*_FNode),
    }
    g.nentry.connect(g.getNodeFor(header), &mir.Edge { Dst: header })
    g.nentry.connect(g.nexit, nil)
    return g
}

func (self *_FCFG) getNodeFor(bb *mir.Block) *_FNode {
    if n, ok := self.nodes[bb.Id]; ok {
        return n
    }
    n := &_FNode { mbb: bb }
    self.nodes[bb.Id] = n
    return n
}

func (self *_FCFG) toexit(n *_FNode, tag *mir.Edge) {
    n.connect(self.nexit, tag)
}

// buildfcfg constructs the scope FCFG. A nested scope's header node
// inherits the exit edges of the subscope as its outgoing edges, so
// the whole subscope collapses into a single node of this graph.
func (self *Scope) buildfcfg() {
    self.fcfg = newFCFG(self.header())

    /* body blocks, without the header */
    body := make(map[int]bool, len(self.Blocks))
    for _, bb := range self.Blocks[1:] {
        body[bb.Id] = true
    }

    for _, bb := range self.Blocks {
        var outedges []mir.Edge

        /* collapsed subscope or plain block */
        if sub, ok := self.HeaderMap[bb.Id]; ok {
            outedges = append(outedges, sub.ExitEdges...)
        } else {
            for _, sb := range bb.Succ {
                outedges = append(outedges, mir.Edge { Src: bb, Dst: sb })
            }
        }

        /* route the edges */
        n := self.fcfg.getNodeFor(bb)
        for _, e := range outedges {
            ee := e
            switch {
                case body[e.Dst.Id]:
                    n.connect(self.fcfg.getNodeFor(e.Dst), &ee)
                case e.Dst != self.header():
                    self.fcfg.toexit(n, &ee)
                default:
                    /* back edges are not recorded */
                    self.fcfg.toexit(n, nil)
            }
        }

        /* the terminating block of a top-level scope has neither
         * exits nor back-edges */
        if len(outedges) == 0 {
            if self.Parent != nil {
                panic("conv: dead end inside a loop scope")
            }
            self.fcfg.toexit(n, nil)
        }
    }
}

// toposort re-orders the scope's blocks into reverse-post-order of
// the FCFG, header first.
func (self *Scope) toposort() {
    po := make([]*mir.Block, 0, len(self.Blocks))
    vis := make(map[*_FNode]bool)

    /* dfs the FCFG in postorder, successors last-to-first, so that
     * the reversed order lists branch targets before fall-throughs */
    var walk func(n *_FNode)
    walk = func(n *_FNode) {
        vis[n] = true
        for i := len(n.succs) - 1; i >= 0; i-- {
            if s := n.succs[i]; !vis[s] {
                walk(s)
            }
        }
        if n.mbb != nil {
            po = append(po, n.mbb)
        }
    }
    walk(self.fcfg.nentry)

    /* re-insert in reverse post order */
    self.Blocks = self.Blocks[:0]
    for i := len(po) - 1; i >= 0; i-- {
        self.Blocks = append(self.Blocks, po[i])
    }
}

/* adopted from:
 *   Cooper K.D., Harvey T.J. & Kennedy K. (2001).
 *   A simple, fast dominance algorithm
 * As we compute _post_dominators, we generate a PO numbering of the
 * reversed graph and consider the successors instead of the
 * predecessors. One pass is enough: the FCFG is acyclic. */
func (self *_FCFG) postdominators() {
    var order []*_FNode
    vis := make(map[*_FNode]bool)

    /* post-order numbering of the reversed graph */
    var rdfs func(n *_FNode)
    rdfs = func(n *_FNode) {
        vis[n] = true
        for _, p := range n.preds {
            if !vis[p] {
                rdfs(p)
            }
        }
        n.num = len(order)
        order = append(order, n)
    }
    rdfs(self.nexit)

    /* the exit node post-dominates itself */
    self.nexit.ipdom = self.nexit

    /* all other nodes in reverse post-order */
    for i := len(order) - 2; i >= 0; i-- {
        n := order[i]
        var ipdom *_FNode
        for _, s := range n.succs {
            ipdom = intersect(ipdom, s)
        }
        n.ipdom = ipdom
    }
}

func intersect(b1 *_FNode, b2 *_FNode) *_FNode {
    if b2.ipdom == nil {
        return b1
    }
    f1, f2 := b1, b2
    if f1 == nil {
        f1 = b2
    }
    for f1.num != f2.num {
        for f1.num < f2.num { f1 = f1.ipdom }
        for f2.num < f1.num { f2 = f2.ipdom }
    }
    return f1
}
