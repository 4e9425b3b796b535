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

// Package singlepath converts the control flow of machine functions
// into single-path code: every basic block executes unconditionally,
// guarded by predicates, so the timing of the function no longer
// depends on its input.
package singlepath

import (
    `github.com/sptools/singlepath/internal/sp/conv`
    `github.com/sptools/singlepath/internal/sp/opts`
    `github.com/sptools/singlepath/mir`
)

// Convert predicates fn in place and returns its single-path layout.
//
// When a selection set is configured with WithFunction and fn is not
// in it, the function is left untouched and a nil layout is returned.
// On error the function must be considered invalid and discarded:
// partial mutations are not rolled back.
func Convert(fn *mir.Func, options ...Option) (*mir.FuncLayout, error) {
    o := opts.GetDefaults()
    for _, fv := range options {
        fv(&o)
    }
    if !o.Selected(fn.Name) {
        return nil, nil
    }
    return conv.NewConverter(fn, o).Convert()
}
