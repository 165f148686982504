// Package matrix offers the dense numeric containers backing a
// surveillance series.
//
// The matrix package provides:
//
//   - Dense: a row-major T×G float64 matrix (time points by monitored
//     groups) with bounds-checked access and copy-on-write operations.
//   - Cube: a T×G×A array (time points by groups by detection
//     algorithms) used for alarm and control-limit layers, with NaN as
//     the missing-value marker.
//   - Shape surgery for incremental realignment: row stacking and
//     slicing, column padding, row deletion and row folding.
//
// Every operation that changes shape returns a freshly allocated value;
// receivers are never resized in place. Matrices are best kept small and
// dense, which surveillance count tables are.
package matrix
