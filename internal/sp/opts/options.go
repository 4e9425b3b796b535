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

package opts

// Options is the converter configuration.
type Options struct {
    // Funcs is the set of function names to convert. An empty set
    // converts every function handed to the converter.
    Funcs map[string]bool

    // DebugDump enables dumps of scope trees, FCFGs and the decomposed
    // control dependence to stderr.
    DebugDump bool
}

func GetDefaults() Options {
    return Options {
        Funcs: map[string]bool{},
    }
}

// Selected reports whether the named function should be converted.
func (self Options) Selected(name string) bool {
    return len(self.Funcs) == 0 || self.Funcs[name]
}
