// SPDX-License-Identifier: MIT

// Package table loads tabular data files into named columns, the input of the
// command-line estimators.
//
// CSV, Stata (.dta) and SAS (.sas7bdat) files are decoded by
// github.com/kshedden/datareader. Column types are inferred by the reader;
// a column is usable as a regressor only when every one of its cells is a
// number. CSV cells must not be padded with spaces.
package table
