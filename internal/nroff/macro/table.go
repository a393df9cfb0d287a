// Package macro implements the macro dispatch table of §3/§4.8: a
// mapping from macro name to a handler variant, configurable at runtime
// by the untranslated/noarg/translate_joined/translate_each/inline
// comma-list options.
package macro

// Variant names how a macro's arguments are handled by the generic
// dispatcher; Structural macros bypass the table entirely and are
// resolved by name in the parser.
type Variant int

const (
	// Untranslated macros are emitted verbatim with no catalog lookup.
	Untranslated Variant = iota
	// NoArg macros are emitted verbatim; supplying arguments warns.
	NoArg
	// TranslateJoined macros translate their concatenated argument
	// string as a single catalog entry.
	TranslateJoined
	// TranslateEach macro translates each argument independently.
	TranslateEach
	// Inline macros fold into the surrounding paragraph as
	// PO4A-INLINE:macro args:PO4A-INLINE, later expanded to E<.macro args>.
	Inline
	// Structural macros have a dedicated handler outside this table.
	Structural
)

// Entry is one macro table registration.
type Entry struct {
	Name    string
	Variant Variant
	// KeepFirstArg preserves a TranslateEach macro's first argument
	// untranslated (the tag of a two-column macro like .IP).
	KeepFirstArg bool
}

// Table is the live, possibly-reconfigured mapping from macro name to
// dispatch variant.
type Table struct {
	entries map[string]Entry
}

// NewManTable builds the base man(7) macro table: the structural macros
// named in §4.7 plus a representative set of the remaining standard
// macros, classified by the variant the reference troff macro packages
// treat them as.
func NewManTable() *Table {
	t := &Table{entries: map[string]Entry{}}
	for _, name := range []string{"TH", "SH", "SS", "TP", "IP", "UR", "de", "ie", "if", "ds", "ig", "ta", "TS", "so", "mso", "ft", "Dd"} {
		t.Register(Entry{Name: name, Variant: Structural})
	}
	for _, name := range []string{"PP", "P", "LP", "br", "sp", "RS", "RE", "PD", "UE"} {
		t.Register(Entry{Name: name, Variant: NoArg})
	}
	for _, name := range []string{"UN"} {
		t.Register(Entry{Name: name, Variant: TranslateJoined})
	}
	return t
}

// NewMdocTable builds the mdoc macro table described in §4.8, installed
// on first encountering .Dd.
func NewMdocTable() *Table {
	t := &Table{entries: map[string]Entry{}}
	for _, name := range []string{"Sh", "Ss", "D1", "Dl", "It", "Nd", "In"} {
		t.Register(Entry{Name: name, Variant: TranslateJoined})
	}
	for _, name := range []string{"Pp", "El"} {
		t.Register(Entry{Name: name, Variant: NoArg})
	}
	t.Register(Entry{Name: "Bl", Variant: Untranslated})
	for _, name := range []string{
		"Ad", "An", "Ar", "Cd", "Cm", "Dv", "Em", "Er", "Ev", "Fa", "Fl", "Fn", "Ft",
		"Ic", "Li", "Ms", "Nm", "Op", "Ot", "Pa", "Pf", "Pq", "Sx", "Sy", "Tn", "Va", "Vt", "Xr",
		"%A", "%B", "%C", "%D", "%I", "%J", "%N", "%O", "%P", "%Q", "%R", "%T", "%U", "%V",
	} {
		t.Register(Entry{Name: name, Variant: Inline})
	}
	// Bd/Ed are not registered here: they are no-wrap begin/end macros
	// (see DefaultNoWrapSets), resolved by dispatchMacro before it ever
	// reaches this table.
	t.Register(Entry{Name: "Dd", Variant: Structural})
	return t
}

// Register adds or replaces an entry.
func (t *Table) Register(e Entry) {
	t.entries[e.Name] = e
}

// RegisterList registers every name in names under variant, matching the
// effect of the untranslated/noarg/translate_joined/translate_each/inline
// configuration options (§6).
func (t *Table) RegisterList(names []string, variant Variant) {
	for _, n := range names {
		t.Register(Entry{Name: n, Variant: variant})
	}
}

// Lookup returns the entry registered for name, if any.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}
