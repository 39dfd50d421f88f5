// Package reconcile merges a prior license summary, an operator-curated
// override file, and the project's current dependencies into an updated
// summary, downloading every license text that is not yet on disk.
//
// # Run
//
// [Reconciler.Run] proceeds in fixed phases:
//
//  1. create the output directory and the summary output's parent
//  2. load the prior summary if it exists; otherwise load the override
//     file and download the licenses of every entry in it
//  3. enumerate dependencies (direct or transitive)
//  4. reuse summary entries by "group:artifact", refreshing only the
//     version; resolve the rest through the [Fetcher] and download their
//     licenses
//  5. write the new summary
//
// Reuse ignores versions: licenses learned for g:a 1.0 are kept when the
// project moves to g:a 2.0, even if the new release changed its license.
// Remove the entry from the summary output to force a fresh lookup.
//
// Only summary I/O is fatal. A dependency whose descriptor cannot be built
// is dropped with a warning; a license that cannot be named or downloaded
// is skipped with a warning. Warnings about missing licenses, invalid URLs,
// not-found downloads and dropped dependencies are suppressed by
// [Options.Quiet]; other transfer failures are always reported.
//
// # Concurrency
//
// Cache hits are all resolved before any fetch starts, so the map of known
// projects is never written while fetches run. Misses are resolved on a
// bounded worker group ([Options.Concurrency]); a concurrency of 1 gives a
// strictly sequential run. A derived license file name is transferred at
// most once per run.
package reconcile
