// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package dataset turns record files into blocking datasets.

Files are read through an in-memory DuckDB database, so any CSV dialect
read_csv_auto detects and any Parquet file work. Column types come from
DuckDB: numeric columns become numeric attributes, all other columns
string attributes unless listed in Options.Nominal. NULL values become
missing values, and an empty or NULL label leaves the record unlabeled.

	loader, err := dataset.Open(logger)
	if err != nil {
	    return err
	}
	defer loader.Close()

	train, err := loader.LoadFile(ctx, "people.csv", dataset.Options{LabelColumn: "entity"})

FromRows builds a dataset from rows already in memory, inferring numeric
columns from their values.
*/
package dataset
