// Package gnuplot emits gnuplot scripts for test hierarchy comparisons.
//
// Two kinds of scripts are produced:
//
//   - A comparison ([Comparison]) draws every leaf-set of a hierarchy side by
//     side on one x axis, in three stacked panels (utilization, queueing
//     delay, drops and marks). Merged statistic blocks are embedded as inline
//     datablocks named after their statistic and x offset, and group titles
//     are placed above the panels using the layout's labels.
//   - A flows script ([FlowsScript]) has one page per test case with the raw
//     time series of that test case.
//
// Scripts are plain text; running the external engine on them is the job of
// package render. Every line of a finished script starts at column zero,
// datablock rows included.
package gnuplot
