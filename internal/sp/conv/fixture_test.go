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

/* addCmp appends a compare defining a fresh predicate register */
func addCmp(fn *mir.Func, bb *mir.Block) mir.Reg {
    cc := fn.CreateReg(mir.ClassPred)
    bb.Append(mir.NewInstr(mir.OP_cmp, mir.Rn(cc), mir.Rn(fn.CreateReg(mir.ClassGen)), mir.Rn(fn.CreateReg(mir.ClassGen))))
    return cc
}

/* addWork appends an ordinary predicable instruction */
func addWork(fn *mir.Func, bb *mir.Block) *mir.Instr {
    p := mir.NewInstr(mir.OP_add, mir.Rn(fn.CreateReg(mir.ClassGen)), mir.Rn(fn.CreateReg(mir.ClassGen)))
    bb.Append(p)
    return p
}

/* branch terminates bb with a conditional branch to tbb and a
 * fall-through to fbb */
func branch(fn *mir.Func, bb *mir.Block, tbb *mir.Block, fbb *mir.Block) {
    cc := addCmp(fn, bb)
    bb.Append(mir.NewCondBranch(cc, 0, tbb))
    mir.Connect(bb, tbb)
    mir.Connect(bb, fbb)
}

/* jump terminates bb with an unconditional branch */
func jump(bb *mir.Block, to *mir.Block) {
    bb.Append(mir.NewBranch(to))
    mir.Connect(bb, to)
}

/* S1: entry -> {A,B}; A -> join; B -> join; join -> exit */
func buildDiamond() (*mir.Func, []*mir.Block) {
    fn := mir.NewFunc("diamond")
    e := fn.NewBlock()
    a := fn.NewBlock()
    b := fn.NewBlock()
    j := fn.NewBlock()
    x := fn.NewBlock()

    branch(fn, e, a, b)
    addWork(fn, a)
    jump(a, j)
    addWork(fn, b)
    mir.Connect(b, j)
    jump(j, x)
    x.Append(mir.NewReturn())
    return fn, []*mir.Block { e, a, b, j, x }
}

/* S2: entry -> {A, join}; A -> join; join -> exit */
func buildTriangle() (*mir.Func, []*mir.Block) {
    fn := mir.NewFunc("triangle")
    e := fn.NewBlock()
    a := fn.NewBlock()
    j := fn.NewBlock()
    x := fn.NewBlock()

    branch(fn, e, a, j)
    addWork(fn, a)
    mir.Connect(a, j)
    jump(j, x)
    x.Append(mir.NewReturn())
    return fn, []*mir.Block { e, a, j, x }
}

/* S3: entry -> {A,B}; A -> {join, exit}; B -> join; join -> exit */
func buildSkewedDiamond() (*mir.Func, []*mir.Block) {
    fn := mir.NewFunc("skewed")
    e := fn.NewBlock()
    a := fn.NewBlock()
    b := fn.NewBlock()
    j := fn.NewBlock()
    x := fn.NewBlock()

    branch(fn, e, a, b)
    branch(fn, a, j, x)
    addWork(fn, b)
    mir.Connect(b, j)
    jump(j, x)
    x.Append(mir.NewReturn())
    return fn, []*mir.Block { e, a, b, j, x }
}

/* S4: entry -> A -> B -> C -> exit */
func buildChain() (*mir.Func, []*mir.Block) {
    fn := mir.NewFunc("chain")
    e := fn.NewBlock()
    a := fn.NewBlock()
    b := fn.NewBlock()
    c := fn.NewBlock()
    x := fn.NewBlock()

    jump(e, a)
    addWork(fn, a)
    jump(a, b)
    addWork(fn, b)
    jump(b, c)
    addWork(fn, c)
    jump(c, x)
    x.Append(mir.NewReturn())
    return fn, []*mir.Block { e, a, b, c, x }
}

/* S5: entry -> {A,B}; A -> X; B -> X; X -> Y; Y -> exit */
func buildSharedCD() (*mir.Func, []*mir.Block) {
    fn := mir.NewFunc("shared")
    e := fn.NewBlock()
    a := fn.NewBlock()
    b := fn.NewBlock()
    xb := fn.NewBlock()
    yb := fn.NewBlock()
    x := fn.NewBlock()

    branch(fn, e, a, b)
    jump(a, xb)
    mir.Connect(b, xb)
    addCmp(fn, xb)
    jump(xb, yb)
    addWork(fn, yb)
    jump(yb, x)
    x.Append(mir.NewReturn())
    return fn, []*mir.Block { e, a, b, xb, yb, x }
}

/* short circuit: entry -> {A, X}; A -> {X, Y}; X -> Y; Y -> exit,
 * X is control-dependent on two distinct edges with the same
 * predicate, so its definition merges through a phi */
func buildTwoDefs() (*mir.Func, []*mir.Block) {
    fn := mir.NewFunc("twodefs")
    e := fn.NewBlock()
    a := fn.NewBlock()
    xb := fn.NewBlock()
    yb := fn.NewBlock()
    x := fn.NewBlock()

    branch(fn, e, xb, a)
    branch(fn, a, xb, yb)
    addWork(fn, xb)
    mir.Connect(xb, yb)
    jump(yb, x)
    x.Append(mir.NewReturn())
    return fn, []*mir.Block { e, a, xb, yb, x }
}

/* single loop: entry -> H; H -> {B, X}; B -> H; X: ret */
func buildLoop(bound int64) (*mir.Func, []*mir.Block) {
    fn := mir.NewFunc("loop")
    e := fn.NewBlock()
    h := fn.NewBlock()
    b := fn.NewBlock()
    x := fn.NewBlock()

    jump(e, h)
    if bound >= 0 {
        h.Append(mir.NewLoopBound(bound))
    }
    branch(fn, h, b, x)
    addWork(fn, b)
    jump(b, h)
    x.Append(mir.NewReturn())
    return fn, []*mir.Block { e, h, b, x }
}
