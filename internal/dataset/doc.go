// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package dataset loads the input files of a recommendation job.
//
// Five files are read from the input directory:
//
//	usersIndex.tsv   uindex<TAB>uid
//	itemsIndex.tsv   iindex<TAB>iid<TAB>tag1,tag2
//	ratings.mm       MatrixMarket coordinate, only (uindex, iindex) used
//	userFeatures.mm  MatrixMarket, F rows x users
//	itemFeatures.mm  MatrixMarket, F rows x items
//
// Any line that fails to parse aborts the load with a *MalformedLineError
// naming the file, line number and content. Matrices with a different
// number of factors fail with recommend.ErrDimensionMismatch.
package dataset
