package parser

// Range is a half-open byte range [Start, End) into the source.
type Range struct {
	Start int
	End   int
}

// Node is a syntax node reduced to what rules need for attribution.
type Node struct {
	Kind   string
	Range  Range
	Line   int // 1-based
	Column int // 1-based, in bytes
}

type CommentKind int

const (
	CommentLine CommentKind = iota
	CommentBlock
)

func (k CommentKind) String() string {
	switch k {
	case CommentLine:
		return "Line"
	case CommentBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Comment carries the comment text without its delimiters.
type Comment struct {
	Kind  CommentKind
	Value string
	Range Range
}

// Program is the parsed form of one source file. Body holds the top-level
// statements and Comments every comment in the file, both in source order.
type Program struct {
	Path     string
	Language string
	Root     Node
	Body     []Node
	Comments []Comment
}

const KindProgram = "program"

// NewProgram builds a Program whose root spans the whole source and sits at
// line 1, column 1.
func NewProgram(path string, sourceLen int, body []Node, comments []Comment) *Program {
	return &Program{
		Path: path,
		Root: Node{
			Kind:   KindProgram,
			Range:  Range{Start: 0, End: sourceLen},
			Line:   1,
			Column: 1,
		},
		Body:     body,
		Comments: comments,
	}
}
