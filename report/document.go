package report

// BlockKind identifies how the document builder lays out a block.
type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockHeading
	BlockSubheading
	BlockTable
	BlockParagraph
	BlockPageBreak
	BlockSpacer
)

func (k BlockKind) String() string {
	switch k {
	case BlockTitle:
		return "title"
	case BlockHeading:
		return "heading"
	case BlockSubheading:
		return "subheading"
	case BlockTable:
		return "table"
	case BlockParagraph:
		return "paragraph"
	case BlockPageBreak:
		return "page-break"
	case BlockSpacer:
		return "spacer"
	}
	return "unknown"
}

type Style int

const (
	StylePlain Style = iota
	StyleBold
	StyleBullet
)

// TableTheme selects header and body colors for a table block.
type TableTheme int

const (
	ThemeSummary TableTheme = iota
	ThemePage
)

// Block is one element of a report. Which fields matter depends on Kind:
// Text and Style for headings and paragraphs, Label for a bold lead-in on
// metadata paragraphs, Rows, Widths and Theme for tables, Space (points) for
// spacers. The first table row is the header.
type Block struct {
	Kind   BlockKind
	Text   string
	Label  string
	Style  Style
	Rows   [][]string
	Widths []float64
	Theme  TableTheme
	Space  float64
}

// Document is an ordered block sequence. Builders return a fresh Document
// and never modify it afterwards.
type Document struct {
	Title  string
	Blocks []Block
}

func (d *Document) add(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}

func title(text string) Block {
	return Block{Kind: BlockTitle, Text: text}
}

func heading(text string) Block {
	return Block{Kind: BlockHeading, Text: text}
}

func subheading(text string) Block {
	return Block{Kind: BlockSubheading, Text: text}
}

func paragraph(text string, style Style) Block {
	return Block{Kind: BlockParagraph, Text: text, Style: style}
}

func labeled(label, text string) Block {
	return Block{Kind: BlockParagraph, Label: label, Text: text}
}

func spacer(points float64) Block {
	return Block{Kind: BlockSpacer, Space: points}
}

func pageBreak() Block {
	return Block{Kind: BlockPageBreak}
}

func table(theme TableTheme, widths []float64, rows ...[]string) Block {
	return Block{Kind: BlockTable, Theme: theme, Widths: widths, Rows: rows}
}
