// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package query provides parameterized WHERE clause building for the
// database package.
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("contextid", 3)
//	wb.AddIn("uid", []string{"u1", "u2"})
//	where, args := wb.BuildWithPrefix()
//	// "WHERE contextid = ? AND uid IN (?, ?)", [3 "u1" "u2"]
//
// Column names are trusted input; only values are parameterized.
package query
