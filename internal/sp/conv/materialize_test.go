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
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/sptools/singlepath/mir`
)

/* materialize runs the define insertion for an analyzed function */
func materialize(t *testing.T, fn *mir.Func, s *Scope) map[int]mir.Reg {
    needsInit := computeUpwardsExposedUses(fn, s)
    useReg, err := insertPredDefinitions(fn, s, needsInit)
    require.NoError(t, err)
    return useReg
}

func TestMaterialize_Diamond(t *testing.T) {
    fn, bb := buildDiamond()
    root := analyze(t, fn)
    e, a, b, j := bb[0], bb[1], bb[2], bb[3]
    useReg := materialize(t, fn, root)

    /* spine blocks have no materialized predicate */
    require.NotContains(t, useReg, e.Id)
    require.NotContains(t, useReg, j.Id)
    require.Contains(t, useReg, a.Id)
    require.Contains(t, useReg, b.Id)

    /* two moves before the branch, one per defining edge */
    ft := e.FirstTerminator()
    require.Equal(t, mir.OP_pmov, e.Ins[ft - 2].Op)
    require.Equal(t, mir.OP_pmov, e.Ins[ft - 1].Op)

    /* the first move takes the branch condition, the second its
     * semantic negation */
    require.Equal(t, useReg[a.Id], e.Ins[ft - 2].Ops[0].Reg)
    require.Equal(t, int64(0), e.Ins[ft - 2].Ops[2].Imm)
    require.Equal(t, useReg[b.Id], e.Ins[ft - 1].Ops[0].Reg)
    require.Equal(t, int64(1), e.Ins[ft - 1].Ops[2].Imm)

    /* both moves read the same condition register */
    require.Equal(t, e.Ins[ft - 2].Ops[1].Reg, e.Ins[ft - 1].Ops[1].Reg)
}

func TestMaterialize_TwoDefsMergeThroughPhi(t *testing.T) {
    fn, bb := buildTwoDefs()
    root := analyze(t, fn)
    e, a, xb := bb[0], bb[1], bb[2]
    useReg := materialize(t, fn, root)

    /* one define at each edge source */
    hasPmov := func(v *mir.Block) bool {
        for _, ins := range v.Ins {
            if ins.Op == mir.OP_pmov {
                return true
            }
        }
        return false
    }
    require.True(t, hasPmov(e))
    require.True(t, hasPmov(a))

    /* the merge block uses a phi of the two defines */
    require.True(t, xb.Ins[0].IsPhi())
    require.Equal(t, useReg[xb.Id], xb.Ins[0].Ops[0].Reg)
}

func TestMaterialize_LoopInitAndSelect(t *testing.T) {
    fn, bb := buildLoop(3)
    root := analyze(t, fn)
    e, h := bb[0], bb[1]
    for _, s := range []*Scope { root.Subscopes[0], root } {
        materializeScope(t, fn, s)
    }

    /* the upwards-exposed header predicate is cleared at entry */
    require.Equal(t, mir.OP_pclr, e.Ins[0].Op)
    rf := e.Ins[0].Ops[0].Reg

    /* its first define is a select keeping the cleared value */
    var sel *mir.Instr
    for _, ins := range h.Ins {
        if ins.Op == mir.OP_psel {
            sel = ins
            break
        }
    }
    require.NotNil(t, sel)
    require.Equal(t, rf, sel.Ops[1].Reg)
}

func materializeScope(t *testing.T, fn *mir.Func, s *Scope) {
    useReg := materialize(t, fn, s)
    require.NoError(t, applyPredicates(fn, s, useReg))
}

func TestMaterialize_ChainEmitsNothing(t *testing.T) {
    fn, _ := buildChain()
    root := analyze(t, fn)
    useReg := materialize(t, fn, root)
    require.Empty(t, useReg)

    /* no predicate registers beyond the fixture's own */
    for _, bb := range fn.Blocks {
        for _, ins := range bb.Ins {
            require.NotEqual(t, mir.OP_pmov, ins.Op)
            require.NotEqual(t, mir.OP_pclr, ins.Op)
            require.NotEqual(t, mir.OP_psel, ins.Op)
        }
    }
}
