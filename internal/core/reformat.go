package core

import "strings"

// Reformatter applies a table kind's configuration to a sheet.
// It holds no per-call state and is safe for concurrent use on distinct sheets.
type Reformatter struct {
	tokens BoolTokens
}

// NewReformatter creates a reformatter coercing the given yes/no tokens.
// Empty tokens fall back to DefaultBoolTokens.
func NewReformatter(tokens BoolTokens) *Reformatter {
	if tokens.True == "" {
		tokens.True = DefaultBoolTokens.True
	}
	if tokens.False == "" {
		tokens.False = DefaultBoolTokens.False
	}
	return &Reformatter{tokens: tokens}
}

// Tokens returns the boolean tokens in use.
func (r *Reformatter) Tokens() BoolTokens {
	return r.tokens
}

// Reformat transforms sheet in place for the given table kind.
//
// Steps run in a fixed order: lookup, column normalization, schema and
// header validation, default backfill, identifier derivation, date
// normalization, boolean coercion. Lookup and validation failures abort
// before any cell value changes. Row count and order are preserved.
func (r *Reformatter) Reformat(sheet *Sheet, kind string) error {
	def, ok := Get(kind)
	if !ok {
		return &UnknownTableKindError{Kind: kind}
	}

	normalizeColumns(sheet)

	if err := ValidateSchema(sheet); err != nil {
		return err
	}
	if err := ValidateHeaders(sheet, def); err != nil {
		return err
	}
	if err := validateIDSources(sheet, def); err != nil {
		return err
	}

	backfillDefaults(sheet, def)
	deriveIDColumns(sheet, def)
	normalizeDateColumns(sheet)
	r.coerceBools(sheet)

	return nil
}

// validateIDSources rejects ID sources that are neither present nor defaulted.
func validateIDSources(s *Sheet, def TableDefinition) error {
	for _, id := range def.IDColumns {
		if s.HasColumn(id.Source) {
			continue
		}
		if _, ok := def.Defaults[id.Source]; ok {
			continue
		}
		return &MissingColumnError{Kind: def.Info.Kind, Column: id.Source}
	}
	return nil
}

// backfillDefaults fills empty ID source cells with the configured default.
func backfillDefaults(s *Sheet, def TableDefinition) {
	for _, id := range def.IDColumns {
		fallback, ok := def.Defaults[id.Source]
		if !ok {
			continue
		}

		s.addColumn(id.Source)
		for _, row := range s.Rows {
			if strings.TrimSpace(row.Text(id.Source)) == "" {
				row[id.Source] = fallback
			}
		}
	}
}

// deriveIDColumns sets each target column from its source text.
// Must run after backfillDefaults.
func deriveIDColumns(s *Sheet, def TableDefinition) {
	for _, id := range def.IDColumns {
		s.addColumn(id.Target)
		for _, row := range s.Rows {
			row[id.Target] = DeriveIDs(row.Text(id.Source))
		}
	}
}

// normalizeDateColumns writes canonical timestamps for known date columns.
// Unparseable values become nil.
func normalizeDateColumns(s *Sheet) {
	for _, dc := range DateColumns {
		if !s.HasColumn(dc.Source) {
			continue
		}

		s.addColumn(dc.Target)
		for _, row := range s.Rows {
			if ts := NormalizeDate(row.Text(dc.Source)); ts.Valid {
				row[dc.Target] = ts.String
			} else {
				row[dc.Target] = nil
			}
		}
	}
}

// coerceBools replaces exact token matches (after trim) with booleans.
func (r *Reformatter) coerceBools(s *Sheet) {
	for _, col := range s.Columns {
		for _, row := range s.Rows {
			v, ok := row[col].(string)
			if !ok {
				continue
			}
			switch strings.TrimSpace(v) {
			case r.tokens.True:
				row[col] = true
			case r.tokens.False:
				row[col] = false
			}
		}
	}
}
