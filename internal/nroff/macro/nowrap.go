package macro

import "github.com/foxcpp/po4man/internal/collections"

// NoWrapSets holds the begin/end macro name sets that open and close a
// MACRONO paragraph region (§4.6). Any end macro closes any open begin
// macro; the design intentionally does not pair specific begin/end names
// (an .EX opened by .nf closes on .EE just as well as on .fi).
type NoWrapSets struct {
	Begin collections.Set[string]
	End   collections.Set[string]
}

// DefaultNoWrapSets returns the built-in no-wrap pairs: nf/fi, EX/EE, EQ/EN,
// and the mdoc display block Bd/Ed (§4.8).
func DefaultNoWrapSets() NoWrapSets {
	return NoWrapSets{
		Begin: collections.SetOf("nf", "EX", "EQ", "Bd"),
		End:   collections.SetOf("fi", "EE", "EN", "Ed"),
	}
}

// AddPair adds a begin:end pair, as produced by parsing the no_wrap
// configuration option's comma list.
func (s NoWrapSets) AddPair(begin, end string) {
	s.Begin.Add(begin)
	s.End.Add(end)
}

// IsBegin reports whether name opens a no-wrap region.
func (s NoWrapSets) IsBegin(name string) bool { return s.Begin.Contains(name) }

// IsEnd reports whether name closes a no-wrap region.
func (s NoWrapSets) IsEnd(name string) bool { return s.End.Contains(name) }
