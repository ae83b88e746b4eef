// Package batch splits long item lists into fixed-size chunks and hands each
// chunk to a callback.
//
// The engine uses it to run request files longer than one batch allows, and the
// CLI uses it to stream logbook exports. Chunks run sequentially with Process or
// with bounded parallelism through ProcessConcurrent. Both honor context
// cancellation between chunks and report progress after every finished chunk.
package batch
