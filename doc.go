// Package microscheduler is a task-parallel compute engine for shared-memory
// multicore machines. Computation is decomposed into small tasks that spawn
// children and synchronize through continuations; a fixed pool of worker
// goroutines executes the resulting task graph using per-worker ready deques
// and work-stealing, so wall-clock time tracks the critical path while
// keeping per-task overhead low.
//
// The engine supports:
//   - Lock-free per-worker Chase-Lev deques with work stealing
//   - A fork-join continuation protocol with task recycling and bypass
//     dispatch
//   - Generic 1-3D iteration ranges and partitioners driving parallel-for,
//     parallel-reduce, and parallel-wavefront (see the ranges, partition,
//     and patterns subpackages)
//   - Context-free blocking via SpawnAndWait, with the calling goroutine
//     participating as a temporary worker
package microscheduler
