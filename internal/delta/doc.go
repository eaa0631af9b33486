// Package delta implements the three-tier differencing engine at the core
// of revtrail: a coarse prefix/suffix detector, a sliding-window
// content-defined matcher built on a rolling hash indexed by a chained hash
// table, and a match-merging pass that emits a gap-free COPY/INSERT
// instruction stream. The inverse applier and chain reconstructor turn a
// stream (or a chain of them) back into bytes.
//
// The package is a pure compute kernel: every entry point consumes
// already-materialized byte buffers and returns another byte buffer or an
// operation stream. It knows nothing about files, directories, or
// persistence — those are the caller's concern (see internal/store).
package delta
