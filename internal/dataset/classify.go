package dataset

import "github.com/go-gota/gota/series"

// Classification partitions a table's columns into numeric and categorical
// sets. Every column appears in exactly one set. A Classification is only
// valid for the Table it was derived from and must be recomputed when a new
// Table is loaded.
type Classification struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// Classify derives the column classification from the table's inferred
// per-column types. A column is numeric when the parser inferred a numeric
// series type for the whole column; mixed numeric/text columns infer as
// string and are therefore categorical. Pure and deterministic: classifying
// the same Table twice yields identical sets.
func (t *Table) Classify() Classification {
	names := t.df.Names()
	types := t.df.Types()

	c := Classification{
		Numeric:     []string{},
		Categorical: []string{},
	}
	for i, name := range names {
		switch types[i] {
		case series.Int, series.Float:
			c.Numeric = append(c.Numeric, name)
		default:
			c.Categorical = append(c.Categorical, name)
		}
	}
	return c
}

// IsNumeric reports whether name is classified as a numeric column.
func (c Classification) IsNumeric(name string) bool {
	for _, n := range c.Numeric {
		if n == name {
			return true
		}
	}
	return false
}
