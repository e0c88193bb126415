// Package verify checks that a leaderboard service converges to the state
// implied by the scores submitted to it.
//
// A run snapshots the top N, picks subjects outside it, records their
// baseline standing, submits scores while keeping a ledger, waits out the
// service's recalculation window and then reconciles each subject's observed
// total and rank against values computed from the baseline and the ledger.
package verify
