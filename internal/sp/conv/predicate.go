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

// applyPredicates rewrites every predicable instruction of the
// scope's blocks to be guarded by the block's use predicate, and
// closes each rewritten block with the block-end sentinel so that
// later stages know the guard for instructions they insert.
func applyPredicates(fn *mir.Func, s *Scope, useReg map[int]mir.Reg) error {
    for _, bb := range s.Blocks {
        preg, ok := useReg[bb.Id]

        /* blocks whose predicate has no definitions stay unguarded */
        if !ok {
            continue
        }

        /* guard everything between the phis and the terminators */
        for _, ins := range bb.Ins[bb.FirstNonPhi():bb.FirstTerminator()] {
            if ins.Bundled {
                return mir.BundleError { Func: fn.Name, Block: bb.Id }
            }

            /* returns stay, the host decides about calls */
            if ins.IsReturn() {
                continue
            }
            if ins.IsCall() {
                ins.CallFixup = true
                continue
            }

            /* a definition of the guard itself cannot be guarded by
             * its own result */
            if dv := ins.Defs(); len(dv) == 1 && dv[0] == preg {
                continue
            }

            /* already predicated instructions are left for the host
             * to fuse */
            if ins.IsPredicable() && !ins.IsPredicated() {
                ins.SetPred(preg, 0)
            }
        }

        /* the sentinel carries the live guard past this pass */
        bb.Insert(bb.FirstTerminator(), mir.NewInstr(mir.OP_bbend, mir.Rn(preg)))
    }
    return nil
}
