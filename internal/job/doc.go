// Package job defines the contract shared by resumable, chunked jobs and the
// runner that drives them.
//
// A job splits its work into a fixed number of steps at init time and
// accumulates run metadata as steps complete. The metadata value is both the
// running checkpoint, persisted after every step, and the final result
// payload, so an interrupted run can resume in a different process from the
// last merged state. Early termination is an expected branch expressed in
// the step output, not an error.
package job
