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

package mir

import (
    `fmt`
)

// StructureError occurs when a function violates the structural
// requirements of single-path conversion: multiple exits, a block
// with more than two successors, or similar.
type StructureError struct {
    Func   string
    Reason string
}

func (self StructureError) Error() string {
    return fmt.Sprintf("StructureError(%s): %s", self.Func, self.Reason)
}

// IrreducibleError occurs when the control flow of a function is not
// reducible: a retreating edge targets a block that does not dominate
// its source.
type IrreducibleError struct {
    Func   string
    Latch  int
    Header int
}

func (self IrreducibleError) Error() string {
    return fmt.Sprintf("IrreducibleError(%s): retreating edge bb_%d -> bb_%d closes no natural loop", self.Func, self.Latch, self.Header)
}

// BranchError occurs when branch analysis fails on a block that
// carries a predicate-defining edge.
type BranchError struct {
    Func  string
    Block int
}

func (self BranchError) Error() string {
    return fmt.Sprintf("BranchError(%s): cannot analyze terminators of bb_%d", self.Func, self.Block)
}

// BundleError occurs when a bundled instruction is encountered during
// predication, which indicates a misordering with a later pass.
type BundleError struct {
    Func  string
    Block int
}

func (self BundleError) Error() string {
    return fmt.Sprintf("BundleError(%s): bundle in bb_%d, predication must run before bundling", self.Func, self.Block)
}
