package asm

// FunctionRecord is one function of a module. StartLine and EndLine are
// zero-based and inclusive; Code is the verbatim text of that range.
type FunctionRecord struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Code      string `json:"code"`
}

// Lines returns the number of lines the function spans.
func (f FunctionRecord) Lines() int { return f.EndLine - f.StartLine + 1 }

// Catalog partitions src into functions in a single pass.
//
// A start marker opens a function and closes the one already open on the
// previous line. A size directive naming the open function closes it on its
// own line. A function still open at the end of the listing runs to the last
// line. Names are not deduplicated.
func Catalog(src *Source) []FunctionRecord {
	var (
		records []FunctionRecord
		open    bool
		name    string
		start   int
	)
	emit := func(end int) {
		records = append(records, FunctionRecord{
			Name:      name,
			StartLine: start,
			EndLine:   end,
			Code:      src.Join(start, end),
		})
		open = false
	}

	for i := 0; i < src.Len(); i++ {
		line := src.Line(i)
		if m := Classify(line); m.Kind == StartMarker {
			if open {
				emit(i - 1)
			}
			open, name, start = true, m.Name, i
			continue
		}
		if open && ClosesFunction(line, name) {
			emit(i)
		}
	}
	if open {
		emit(src.Len() - 1)
	}
	return records
}

// CatalogText is Catalog over a fresh snapshot of text.
func CatalogText(text string) []FunctionRecord {
	return Catalog(NewSource(text))
}
