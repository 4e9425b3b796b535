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

/* Iterative dominator computation after:
 *   Cooper K.D., Harvey T.J. & Kennedy K. (2001).
 *   A simple, fast dominance algorithm
 * The walk repeats over the blocks in reverse-post-order until the
 * immediate dominators stop changing, which handles the cycles that
 * loops introduce. */

package mir

// DomTree is the dominator tree of a function CFG. The entry block
// appears only as a dominator, never as a key of DominatedBy.
type DomTree struct {
    Root        *Block
    DominatedBy map[int]*Block
    DominatorOf map[int][]*Block
}

// Dominates reports whether a dominates b, walking the immediate
// dominator chain upwards from b.
func (self DomTree) Dominates(a *Block, b *Block) bool {
    for b != nil {
        if a == b {
            return true
        }
        b = self.DominatedBy[b.Id]
    }
    return false
}

type _DomBuilder struct {
    po   []*Block
    num  map[int]int
    idom []*Block
}

/* meet walks both dominator chains towards the entry block until
 * they join; higher post-order numbers are closer to the entry */
func (self *_DomBuilder) meet(a *Block, b *Block) *Block {
    for a != b {
        for self.num[a.Id] < self.num[b.Id] {
            a = self.idom[self.num[a.Id]]
        }
        for self.num[b.Id] < self.num[a.Id] {
            b = self.idom[self.num[b.Id]]
        }
    }
    return a
}

/* pick folds the already-computed predecessors of bb into a single
 * immediate dominator candidate */
func (self *_DomBuilder) pick(bb *Block) *Block {
    var nd *Block
    for _, pb := range bb.Pred {
        pi, ok := self.num[pb.Id]
        if !ok || self.idom[pi] == nil {
            continue
        }
        if nd == nil {
            nd = pb
        } else {
            nd = self.meet(nd, pb)
        }
    }
    return nd
}

func (self *_DomBuilder) run(entry *Block) {
    nb := len(self.po)
    self.idom = make([]*Block, nb)
    self.idom[self.num[entry.Id]] = entry

    /* sweep in reverse-post-order until nothing moves; the entry
     * block sits at the end of the post-order and is skipped */
    for again := true; again; {
        again = false
        for i := nb - 2; i >= 0; i-- {
            bb := self.po[i]
            nd := self.pick(bb)
            if nd != nil && nd != self.idom[i] {
                self.idom[i] = nd
                again = true
            }
        }
    }
}

// BuildDomTree computes the dominator tree of fn.
func BuildDomTree(fn *Func) DomTree {
    db := &_DomBuilder {
        po  : fn.Postorder(),
        num : make(map[int]int),
    }

    /* post-order numbering, then the fixed-point sweep */
    for i, bb := range db.po {
        db.num[bb.Id] = i
    }
    db.run(fn.Entry())

    /* fold the result into the lookup maps, blocks in reverse-post-
     * order so the children lists come out in a stable order */
    ret := DomTree {
        Root        : fn.Entry(),
        DominatedBy : make(map[int]*Block),
        DominatorOf : make(map[int][]*Block),
    }
    for i := len(db.po) - 2; i >= 0; i-- {
        bb := db.po[i]
        up := db.idom[i]
        ret.DominatedBy[bb.Id] = up
        ret.DominatorOf[up.Id] = append(ret.DominatorOf[up.Id], bb)
    }
    return ret
}
