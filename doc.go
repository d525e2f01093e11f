// Package nexotax computes Finnish capital-income and capital-gains tax
// figures from a Nexo exchange CSV export.
//
// The pipeline is a single-threaded batch computation: raw rows are
// classified into typed events, a daily USD/EUR rate table is inferred from
// card-purchase observations and used to attach EUR values to every event,
// a shared FIFO lot ledger is seeded from all acquisition events across all
// years, and each requested tax year is then aggregated in ascending order
// so that unconsumed lots carry forward correctly.
//
// All monetary and quantity arithmetic is exact base-10 decimal; binary
// floating point would drift across the chained proportional allocations of
// the lot ledger.
package nexotax
