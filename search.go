package docstore

import (
	"golang.org/x/text/language"
	"golang.org/x/text/search"
)

// Search returns the active records of c where term is a case-insensitive
// substring of any of the whitelisted string fields. Matching uses Unicode
// case folding, not ASCII lowercasing.
func (s *Store) Search(c *Collection, term string, fields ...string) ([]Record, error) {
	recs, err := s.All(c)
	if err != nil {
		return nil, err
	}
	if term == "" || len(fields) == 0 {
		return recs, nil
	}

	pat := search.New(language.Und, search.IgnoreCase).CompileString(term)
	var out []Record
	for _, rec := range recs {
		for _, field := range fields {
			text, ok := rec[field].(string)
			if !ok {
				continue
			}
			if start, _ := pat.IndexString(text); start >= 0 {
				out = append(out, rec)
				break
			}
		}
	}
	return out, nil
}
