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

func TestPredicate_GuardsAndSentinel(t *testing.T) {
    fn, bb := buildDiamond()
    root := analyze(t, fn)
    a, b := bb[1], bb[2]
    useReg := materialize(t, fn, root)
    require.NoError(t, applyPredicates(fn, root, useReg))

    /* the work in each arm is guarded by the arm's predicate */
    work := a.Ins[0]
    require.Equal(t, mir.OP_add, work.Op)
    pr, neg := work.Pred()
    require.Equal(t, useReg[a.Id], pr)
    require.Equal(t, int64(0), neg)

    /* the sentinel closes the block right before the terminators */
    ft := a.FirstTerminator()
    require.Equal(t, mir.OP_bbend, a.Ins[ft - 1].Op)
    require.Equal(t, useReg[a.Id], a.Ins[ft - 1].Ops[0].Reg)

    /* a fall-through block gets the sentinel at its very end */
    require.Equal(t, mir.OP_bbend, b.Ins[len(b.Ins) - 1].Op)
}

func TestPredicate_SpineStaysUnguarded(t *testing.T) {
    fn, bb := buildDiamond()
    root := analyze(t, fn)
    e, j := bb[0], bb[3]
    useReg := materialize(t, fn, root)
    require.NoError(t, applyPredicates(fn, root, useReg))

    /* blocks whose predicate has no defining edges are untouched */
    for _, ins := range append(e.Ins, j.Ins...) {
        require.NotEqual(t, mir.OP_bbend, ins.Op)
        require.False(t, ins.IsPredicated())
    }
}

func TestPredicate_ReturnsSkippedCallsFlagged(t *testing.T) {
    fn, bb := buildTriangle()
    root := analyze(t, fn)
    a := bb[1]

    /* put a call into the guarded arm */
    call := &mir.Instr { Op: mir.OP_call }
    a.Insert(0, call)

    useReg := materialize(t, fn, root)
    require.NoError(t, applyPredicates(fn, root, useReg))

    /* the call is forwarded unguarded, flagged for the host */
    require.False(t, call.IsPredicated())
    require.True(t, call.CallFixup)

    /* the return block is on the spine and keeps its return */
    x := bb[3]
    require.Equal(t, mir.OP_ret, x.Ins[len(x.Ins) - 1].Op)
    require.False(t, x.Ins[len(x.Ins) - 1].IsPredicated())
}

func TestPredicate_BundleIsFatal(t *testing.T) {
    fn, bb := buildDiamond()
    root := analyze(t, fn)
    a := bb[1]

    /* hand the predicator a bundled instruction */
    a.Ins[0].Bundled = true
    useReg := materialize(t, fn, root)
    err := applyPredicates(fn, root, useReg)
    require.Error(t, err)
    require.IsType(t, mir.BundleError{}, err)
}

func TestPredicate_AlreadyPredicatedLeftAlone(t *testing.T) {
    fn, bb := buildDiamond()
    root := analyze(t, fn)
    a := bb[1]

    /* pre-guarded instruction keeps its guard */
    own := fn.CreateReg(mir.ClassPred)
    a.Ins[0].SetPred(own, 1)

    useReg := materialize(t, fn, root)
    require.NoError(t, applyPredicates(fn, root, useReg))
    pr, neg := a.Ins[0].Pred()
    require.Equal(t, own, pr)
    require.Equal(t, int64(1), neg)
}
