// Package batch assesses many production scenarios in one run.
//
// Processor splits a slice into fixed-size batches and runs a callback per
// batch, either sequentially or with bounded concurrency. Run builds on it
// to assess a scenario file, keeping per-scenario failures in the results
// instead of aborting the whole run.
package batch
