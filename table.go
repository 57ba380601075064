package phrasecache

// Table is the full cache table: domain -> language -> phrases. It is also
// the shape the snapshot store serializes, so any Codec capable of nested
// maps round-trips it.
type Table map[string]DomainTable

// DomainTable maps language identifiers to their phrase tables.
type DomainTable map[string]*LanguageTable

// LanguageTable holds every phrase of one (domain, language) pair. Loaded
// distinguishes "populated from the source, possibly with zero entries" from
// "not yet loaded": a loaded-but-empty table must not be re-fetched on the
// next miss.
type LanguageTable struct {
	Loaded  bool              `cbor:"loaded" json:"loaded" msgpack:"loaded"`
	Entries map[string]string `cbor:"entries" json:"entries" msgpack:"entries"`
}

func newLanguageTable() *LanguageTable {
	return &LanguageTable{Entries: make(map[string]string)}
}

// normalize repairs a table coming back from a decoder: nil sub-maps and nil
// language tables become empty ones so the cache can mutate them in place.
func (t Table) normalize() {
	for d, dt := range t {
		if dt == nil {
			t[d] = make(DomainTable)
			continue
		}
		for l, lt := range dt {
			if lt == nil {
				dt[l] = newLanguageTable()
				continue
			}
			if lt.Entries == nil {
				lt.Entries = make(map[string]string)
			}
		}
	}
}
