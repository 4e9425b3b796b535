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

package singlepath

import (
    `github.com/sptools/singlepath/internal/sp/opts`
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithFunction adds a function name to the selection set. Once the
// set is non-empty, only functions named in it are converted.
func WithFunction(name string) Option {
    return func(o *opts.Options) { o.Funcs[name] = true }
}

// WithFunctions adds several function names to the selection set.
func WithFunctions(names ...string) Option {
    return func(o *opts.Options) {
        for _, name := range names {
            o.Funcs[name] = true
        }
    }
}

// WithDebugDump enables dumps of the scope tree, the per-scope FCFGs
// and the decomposed control dependence to stderr.
func WithDebugDump(v bool) Option {
    return func(o *opts.Options) { o.DebugDump = v }
}
