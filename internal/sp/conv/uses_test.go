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
)

func TestUses_DiamondNeedsNoInit(t *testing.T) {
    fn, _ := buildDiamond()
    root := analyze(t, fn)

    /* every predicate is defined before use on every path */
    init := computeUpwardsExposedUses(fn, root)
    require.True(t, init.empty())
}

func TestUses_ChainNeedsNoInit(t *testing.T) {
    fn, _ := buildChain()
    root := analyze(t, fn)
    init := computeUpwardsExposedUses(fn, root)
    require.True(t, init.empty())
}

func TestUses_LoopHeaderIsUpwardsExposed(t *testing.T) {
    fn, _ := buildLoop(3)
    root := analyze(t, fn)
    ls := root.Subscopes[0]

    /* the header predicate is used on iteration entry but defined
     * only inside the loop, so it reaches the function entry */
    init := computeUpwardsExposedUses(fn, ls)
    require.True(t, init.test(0))
    require.False(t, init.test(1))
}

func TestUses_UndefinedPredicatesAreMasked(t *testing.T) {
    fn, _ := buildDiamond()
    root := analyze(t, fn)

    /* p0 of a loop-free scope reaches the entry, but without real
     * defining edges it is never materialized, hence never cleared */
    init := computeUpwardsExposedUses(fn, root)
    require.False(t, init.test(0))
}
