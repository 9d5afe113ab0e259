// SPDX-License-Identifier: MIT

// Package summary renders fitted spatial models as text reports and draws
// the concentrated likelihood profile of the ML lag model.
//
// Reports are plain strings with pterm tables, suitable for a terminal or a
// log file. Inference uses asymptotic normal z statistics throughout.
package summary
