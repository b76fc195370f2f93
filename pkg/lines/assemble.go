package lines

import "strings"

// Assembler turns symbol streams into lines. Line indexes keep increasing
// across calls, so one Assembler numbers all paragraphs of a page
// continuously. An Assembler is not safe for concurrent use.
type Assembler struct {
	index int
	diags []*SymbolError
}

// NewAssembler creates an assembler whose first emitted line has index 1
func NewAssembler() *Assembler {
	return &Assembler{}
}

// AssembleLines assembles one symbol stream with a fresh assembler
func AssembleLines(symbols []Symbol) ([]Line, []*SymbolError) {
	a := NewAssembler()
	return a.Symbols(symbols), a.Diagnostics()
}

// Symbols assembles a stream where confidence is tracked per symbol
func (a *Assembler) Symbols(symbols []Symbol) []Line {
	var out []Line
	st := newLineState()
	for i, s := range symbols {
		st.observe(s.Confidence)
		a.feed(st, s, i, &out)
	}
	return a.flush(st, out)
}

// Words assembles a stream where confidence is tracked per word, as reported
// by recognizers that only score whole words. A word split by a line break
// counts towards both lines.
func (a *Assembler) Words(words []Word) []Line {
	var out []Line
	st := newLineState()
	pos := 0
	for _, w := range words {
		for _, s := range w.Symbols {
			st.observe(w.Confidence)
			a.feed(st, s, pos, &out)
			pos++
		}
	}
	return a.flush(st, out)
}

// Diagnostics returns every symbol problem recorded so far
func (a *Assembler) Diagnostics() []*SymbolError {
	return a.diags
}

// Next returns the index the next emitted line will get
func (a *Assembler) Next() int {
	return a.index + 1
}

func (a *Assembler) feed(st *lineState, s Symbol, pos int, out *[]Line) {
	st.text.WriteString(s.Text)

	if s.Rect == nil {
		a.report(pos, s, ErrNoBoundingBox)
	} else {
		st.grow(*s.Rect)
	}

	switch s.Break {
	case BreakNone:
	case BreakSpace, BreakOther:
		st.text.WriteByte(' ')
	case BreakSureSpace, BreakLineBreak:
		*out = append(*out, a.emit(st))
	default:
		a.report(pos, s, ErrUnknownBreak)
		st.text.WriteByte(' ')
	}
}

// flush emits the pending line unless it holds only separators
func (a *Assembler) flush(st *lineState, out []Line) []Line {
	if strings.TrimSpace(st.text.String()) != "" {
		out = append(out, a.emit(st))
	}
	return out
}

func (a *Assembler) emit(st *lineState) Line {
	a.index++
	l := Line{
		Index:      a.index,
		Text:       strings.TrimSpace(st.text.String()),
		Rect:       st.rect,
		Confidence: st.minConf,
		Area:       st.rect.Area(),
	}
	st.reset()
	return l
}

func (a *Assembler) report(pos int, s Symbol, err error) {
	a.diags = append(a.diags, &SymbolError{
		Position: pos,
		Text:     s.Text,
		Line:     a.index + 1,
		Err:      err,
	})
}
