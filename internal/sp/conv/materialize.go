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
    `github.com/sptools/singlepath/internal/sp/ssa`
)

// insertPredDefinitions materializes every predicate of the scope:
// a predicate move at each defining edge, a clear at function entry
// for upwards-exposed predicates, with SSA form over the predicate
// registers maintained by the incremental updater. It returns the
// virtual register carrying each block's use predicate at block end.
func insertPredDefinitions(fn *mir.Func, s *Scope, needsInit _BitVec) (map[int]mir.Reg, error) {
    useReg := make(map[int]mir.Reg)
    updater := ssa.NewUpdater(fn)

    for i := 0; i < s.PredCount; i++ {
        edges := s.defEdges(i)

        /* no real defining edges, the predicate is implicitly the
         * scope entry condition */
        if len(edges) == 0 {
            continue
        }

        /* place a definition at every defining edge */
        rf := mir.NoReg
        for k, de := range edges {
            src, dst := de.edge.Src, de.edge.Dst
            bi, ok := mir.AnalyzeBranch(src)
            if !ok || len(bi.Cond) == 0 {
                return nil, mir.BranchError { Func: fn.Name, Block: src.Id }
            }

            /* the analyzed condition refers to the TBB edge */
            cond := bi.Cond
            if dst != bi.TBB {
                cond = mir.ReverseCond(cond)
            }
            rcmp := fn.CreateReg(mir.ClassPred)

            /* on the first real definition, initialize the updater,
             * and create the cleared register for upwards-exposed
             * predicates: the first define becomes a select that
             * keeps the cleared value when the condition does not
             * hold */
            if k == 0 {
                updater.Initialize(rcmp)
                if needsInit.test(i) {
                    rf = fn.CreateReg(mir.ClassPred)
                    fn.Entry().Insert(0, mir.NewInstr(mir.OP_pclr, mir.Rn(rf)))
                }
            }

            /* build the defining instruction */
            var def *mir.Instr
            if k == 0 && rf != mir.NoReg {
                def = mir.NewInstr(mir.OP_psel, mir.Rn(rcmp), mir.Rn(rf), cond[0], cond[1])
            } else {
                def = mir.NewInstr(mir.OP_pmov, mir.Rn(rcmp), cond[0], cond[1])
            }

            /* insert before the terminators; other predicates may
             * read the same condition register, so kill flags on it
             * are stale from here on */
            src.Insert(src.FirstTerminator(), def)
            fn.ClearKillFlags(cond[0].Reg)
            updater.AddAvailableValue(src, rcmp)
        }

        /* obtain the virtual register for every block using this
         * predicate, in scope RPO */
        for _, bb := range s.Blocks {
            if s.usesPred(bb.Id, i) {
                useReg[bb.Id] = updater.GetValueAtEndOfBlock(bb)
            }
        }
    }
    return useReg, nil
}
