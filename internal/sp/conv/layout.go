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

// linearize walks the scope tree depth-first and stitches the
// predicated blocks into the final single-path order: a scope's
// blocks appear in scope RPO, with every nested scope expanded in
// place of its header.
func linearize(root *Scope) *mir.FuncLayout {
    ret := &mir.FuncLayout {
        Start : make(map[int]int),
        Block : make(map[int]*mir.Block),
    }
    emitScope(root, ret)
    return ret
}

func emitScope(s *Scope, fl *mir.FuncLayout) {
    for _, bb := range s.Blocks {
        if sub, ok := s.HeaderMap[bb.Id]; ok {
            emitScope(sub, fl)
        } else {
            emitBlock(bb, fl)
        }
    }
}

func emitBlock(bb *mir.Block, fl *mir.FuncLayout) {
    fl.Start[bb.Id] = len(fl.Ins)
    fl.Block[len(fl.Ins)] = bb
    fl.Order = append(fl.Order, bb)
    fl.Ins = append(fl.Ins, bb.Ins...)
}
