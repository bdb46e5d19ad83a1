// Copyright 2020 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package future implements a one-shot asynchronous value channel with
// schedulable continuations: a Producer and a Consumer share a SharedState
// that transports a single result (or error) from producer to consumer, and
// optionally chains a pipeline of continuations that run either on parent
// completion, on consumer demand, or at the earliest opportunity, optionally
// dispatched onto a caller-supplied Executor.
//
// # States
//
// A SharedState starts empty. It transitions exactly once to either a result
// or an error, at which point it is "finished". A Consumer extracts the
// result exactly once, after which it is no longer "valid".
//
// # Chains
//
// Calling Then or ThenExecutor on a Consumer produces a new Consumer backed
// by a child SharedState, and consumes (moves out) the original Consumer.
// Every node in a chain, from the root Producer's state down to the last
// Consumer, serializes on the same mutex: the root producer's mutex is
// shared, by pointer, down the whole chain, so that attaching a
// continuation and publishing a result can never race.
//
// # Triggers
//
// Then has three policies for when a continuation's function runs relative
// to its parent: Any (eagerly, on whichever of parent-completion or
// downstream-demand happens first), Set (strictly on parent completion), and
// Get (strictly on downstream demand, however late).
//
// # Dropped producers
//
// A Producer whose Consumer was taken, but which is dropped before
// completing, resolves its Consumer's Get with ErrBrokenPromise. Call Drop
// explicitly when a Producer is abandoned; a best-effort garbage-collection
// backstop exists but must not be relied on for timely resolution.
package future
