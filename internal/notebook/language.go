package notebook

// CommentStyle describes how a language writes comments. Line is the line
// comment prefix; BlockStart and BlockEnd delimit block comments and are
// used to wrap markup cells so the flattened document stays syntactically
// consistent in the notebook's default language.
type CommentStyle struct {
	Line       string
	BlockStart string
	BlockEnd   string
}

var commentStyles = map[string]CommentStyle{
	"python":      {Line: "#", BlockStart: `"""`, BlockEnd: `"""`},
	"r":           {Line: "#", BlockStart: `"`, BlockEnd: `"`},
	"julia":       {Line: "#", BlockStart: "#=", BlockEnd: "=#"},
	"ruby":        {Line: "#", BlockStart: "=begin", BlockEnd: "=end"},
	"shellscript": {Line: "#", BlockStart: ": '", BlockEnd: "'"},
	"javascript":  {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"typescript":  {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"go":          {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"java":        {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"c":           {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"cpp":         {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"csharp":      {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"rust":        {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"scala":       {Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	"sql":         {Line: "--", BlockStart: "/*", BlockEnd: "*/"},
	"lua":         {Line: "--", BlockStart: "--[[", BlockEnd: "]]"},
	"html":        {Line: "", BlockStart: "<!--", BlockEnd: "-->"},
	"markdown":    {Line: "", BlockStart: "<!--", BlockEnd: "-->"},
}

// defaultCommentStyle is used for languages not in the table.
var defaultCommentStyle = CommentStyle{Line: "//", BlockStart: "/*", BlockEnd: "*/"}

// StyleFor returns the comment style for a language id.
// Unknown languages get C-style comments.
func StyleFor(language string) CommentStyle {
	if style, ok := commentStyles[language]; ok {
		return style
	}
	return defaultCommentStyle
}

// RegisterStyle overrides the comment style for a language id.
// Not safe for concurrent use; intended for process startup configuration.
func RegisterStyle(language string, style CommentStyle) {
	commentStyles[language] = style
}
