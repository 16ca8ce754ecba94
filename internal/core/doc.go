// Package core provides the reformatting logic for exported Bubble tables.
//
// This package holds the domain rules only. It does no file or network I/O
// and can be driven by the CLI, the web handlers or tests without change.
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// names the columns a kind requires, the identifier columns to derive and
// the defaults to backfill before derivation:
//
//	core.Register(TableDefinition{
//	    Info:            TableInfo{Kind: "album", Group: "Catalog", Label: "Albums"},
//	    RequiredColumns: []string{"unique id", "label"},
//	    IDColumns: []IDColumn{
//	        {Target: "unique_id", Source: "unique id"},
//	        {Target: "label_formatted", Source: "label"},
//	    },
//	    Defaults: map[string]string{"label": "0000000000000x000000000000000001"},
//	})
//
// # Reformatting
//
// [Reformatter.Reformat] applies one definition to a [Sheet] in place:
//
//  1. Column names are lowercased and trimmed
//  2. The schema and required headers are validated
//  3. Empty identifier sources are backfilled with their defaults
//  4. Identifier columns are derived with [DeriveIDs]
//  5. Known date columns are normalized with [NormalizeDate]
//  6. Yes/no tokens become booleans
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - TBL001-TBL002: Table kind resolution
//   - VAL004-VAL007: Schema validation
//   - FILE002-FILE007: File reading
//   - NET001-NET003: Storage and downloads
//   - UPL002-UPL005: Transfer limits, cancellation and timeouts
package core
