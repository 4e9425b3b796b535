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
    `os`
    `strings`

    `github.com/davecgh/go-spew/spew`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/encoding`
    `gonum.org/v1/gonum/graph/encoding/dot`
    `gonum.org/v1/gonum/graph/simple`

    `github.com/sptools/singlepath/mir`
)

/* dumpScope prints the decomposed control dependence of a scope and
 * its FCFG in DOT form */
func (self *Converter) dumpScope(s *Scope) {
    var sb strings.Builder
    ind := strings.Repeat("  ", s.Depth)

    /* scope line */
    fmt.Fprintf(&sb, "%s[bb_%d] |P|=%d", ind, s.header().Id, s.PredCount)
    if s.LoopBound >= 0 {
        fmt.Fprintf(&sb, " bound=%d", s.LoopBound)
    }
    if len(s.Latches) != 0 {
        fmt.Fprintf(&sb, " L%s", blockset(s.Latches))
    }
    sb.WriteString("\n")

    /* R: block -> predicate uses and defines */
    for _, bb := range s.Blocks {
        fmt.Fprintf(&sb, "%s  bb_%d u=%v", ind, bb.Id, s.PredUse[bb.Id])
        if dv := s.PredDefs[bb.Id]; len(dv) != 0 {
            sb.WriteString(" d=")
            for _, d := range dv {
                fmt.Fprintf(&sb, "p%d%s ", d.Pred, d.Edge)
            }
        }
        sb.WriteString("\n")
    }

    /* K: predicate -> defining dependence set */
    for i, t := range s.kk {
        fmt.Fprintf(&sb, "%s  K(p%d) -> {", ind, i)
        for _, de := range t {
            fmt.Fprintf(&sb, "%s%s, ", de.node.name(), de.edge)
        }
        sb.WriteString("}\n")
    }
    os.Stderr.WriteString(sb.String())

    /* FCFG in DOT, raw control dependence for the curious */
    if buf, err := dot.Marshal(s.fcfgGraph(), fmt.Sprintf("fcfg_bb_%d", s.header().Id), "", "  "); err == nil {
        os.Stderr.Write(buf)
        os.Stderr.WriteString("\n")
    }
    spew.Config.SortKeys = true
    spew.Fdump(os.Stderr, s.CD)
}

func blockset(bv []*mir.Block) string {
    ss := make([]string, 0, len(bv))
    for _, bb := range bv {
        ss = append(ss, bb.String())
    }
    return "{" + strings.Join(ss, " ") + "}"
}

type _DotNode struct {
    id    int64
    label string
}

func (self _DotNode) ID() int64 { return self.id }

func (self _DotNode) Attributes() []encoding.Attribute {
    return []encoding.Attribute {{ Key: "label", Value: self.label }}
}

/* fcfgGraph converts the scope FCFG into a gonum graph for DOT
 * rendering, entry and exit first, blocks in scope order */
func (self *Scope) fcfgGraph() graph.Directed {
    g := simple.NewDirectedGraph()
    ids := make(map[*_FNode]_DotNode)

    add := func(n *_FNode) {
        dn := _DotNode { id: int64(len(ids)), label: n.name() }
        ids[n] = dn
        g.AddNode(dn)
    }
    add(self.fcfg.nentry)
    add(self.fcfg.nexit)
    for _, bb := range self.Blocks {
        add(self.fcfg.getNodeFor(bb))
    }

    for _, bb := range self.Blocks {
        n := self.fcfg.getNodeFor(bb)
        for _, s := range n.succs {
            g.SetEdge(simple.Edge { F: ids[n], T: ids[s] })
        }
    }
    for _, s := range self.fcfg.nentry.succs {
        g.SetEdge(simple.Edge { F: ids[self.fcfg.nentry], T: ids[s] })
    }
    return g
}
