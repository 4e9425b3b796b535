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

    `github.com/sptools/singlepath/mir`
    `github.com/sptools/singlepath/internal/sp/opts`
)

// Converter drives the single-path conversion of one function.
type Converter struct {
    fn  *mir.Func
    opt opts.Options
}

func NewConverter(fn *mir.Func, opt opts.Options) *Converter {
    return &Converter { fn: fn, opt: opt }
}

// Convert predicates the function scope by scope, innermost scopes
// first, and returns the single-path layout. The function is left in
// an undefined state when an error is returned.
func (self *Converter) Convert() (*mir.FuncLayout, error) {
    if err := self.check(); err != nil {
        return nil, err
    }

    /* the scope tree needs the loop forest, which needs dominators */
    dt := mir.BuildDomTree(self.fn)
    lf, err := mir.FindLoops(self.fn, dt)
    if err != nil {
        return nil, err
    }

    /* lay the scopes over the function */
    root := buildScopeTree(self.fn, lf)
    self.checkLoopBounds(root)

    /* predicate every scope, children before parents, so that an
     * outer scope sees each nested loop as one predicated region */
    if err := self.convertScope(root); err != nil {
        return nil, err
    }

    /* stitch the blocks into the single-path order */
    fl := linearize(root)
    if self.opt.DebugDump {
        fmt.Fprintln(os.Stderr, fl.String())
    }
    return fl, nil
}

func (self *Converter) convertScope(s *Scope) error {
    for _, sub := range s.Subscopes {
        if err := self.convertScope(sub); err != nil {
            return err
        }
    }

    /* control dependence and its decomposition */
    s.computePredInfos()
    if self.opt.DebugDump {
        self.dumpScope(s)
    }

    /* materialize and apply the predicates */
    needsInit := computeUpwardsExposedUses(self.fn, s)
    useReg, err := insertPredDefinitions(self.fn, s, needsInit)
    if err != nil {
        return err
    }
    return applyPredicates(self.fn, s, useReg)
}

/* check rejects functions the conversion cannot represent */
func (self *Converter) check() error {
    nexit := 0
    for _, bb := range self.fn.Blocks {
        if len(bb.Succ) > 2 {
            return mir.StructureError {
                Func   : self.fn.Name,
                Reason : fmt.Sprintf("bb_%d has %d successors, branches must be binary", bb.Id, len(bb.Succ)),
            }
        }
        if len(bb.Succ) == 0 {
            nexit++
        }
    }
    if nexit != 1 {
        return mir.StructureError {
            Func   : self.fn.Name,
            Reason : fmt.Sprintf("function has %d exit blocks, a single exit is required", nexit),
        }
    }
    return nil
}

/* missing loop bounds do not stop the conversion, but downstream
 * timing analysis will have nothing to work with */
func (self *Converter) checkLoopBounds(s *Scope) {
    if s.Parent != nil && s.LoopBound < 0 {
        fmt.Fprintf(os.Stderr, "singlepath: warning: %s: loop at bb_%d has no loop bound\n", self.fn.Name, s.header().Id)
    }
    for _, sub := range s.Subscopes {
        self.checkLoopBounds(sub)
    }
}
