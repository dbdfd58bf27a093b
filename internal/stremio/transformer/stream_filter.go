package stremio_transformer

import (
	"strings"

	"github.com/MunifTanjim/go-ptt"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
)

type Resolution string

func (r Resolution) Order() int64 {
	return getResolutionRank(string(r))
}

func (r Resolution) Normalize() string {
	return strings.ToLower(string(r))
}

type Quality string

func (q Quality) Order() int64 {
	return getQualityRank(string(q))
}

func (q Quality) Normalize() string {
	return strings.ToLower(string(q))
}

type Size string

func (s Size) Order() int64 {
	return getSizeRank(string(s))
}

func (s Size) Normalize() string {
	return strings.ToLower(string(s))
}

type StreamMetaFile struct {
	Name string
	Size string
}

type StreamMetaStore struct {
	Code string
	Name string
}

// StreamMeta is the environment exposed to filter expressions, e.g.
// `Resolution >= "1080p" && File.Size < "20 GB" && ItemKind == "torrent"`.
type StreamMeta struct {
	*ptt.Result
	ItemName   string
	ItemKind   string
	MatchScore float64
	File       StreamMetaFile
	Store      StreamMetaStore
}

var orderableConverter = map[string]string{
	"Resolution": "__Resolution__",
	"Quality":    "__Quality__",
	"Size":       "__Size__",
	"File.Size":  "__Size__",
}

func toOrderable(node ast.Node, converter string) ast.Node {
	return &ast.CallNode{
		Callee: &ast.MemberNode{
			Node: &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: converter},
				Arguments: []ast.Node{node},
			},
			Property: &ast.StringNode{Value: "Order"},
			Method:   true,
		},
		Arguments: []ast.Node{},
	}
}

func orderableConverterOf(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		converter, ok := orderableConverter[n.Value]
		return converter, ok
	case *ast.MemberNode:
		if n.Node.String() == "File" && n.Property.String() == `"Size"` {
			return orderableConverter["File.Size"], true
		}
	}
	return "", false
}

// ValuePatcher turns comparisons on ordered fields into comparisons of their
// ranks, so `Resolution > "720p"` compares 1080 with 720.
type ValuePatcher struct{}

func (ValuePatcher) Visit(node *ast.Node) {
	bin, ok := (*node).(*ast.BinaryNode)
	if !ok {
		return
	}
	converter, ok := orderableConverterOf(bin.Left)
	if !ok {
		converter, ok = orderableConverterOf(bin.Right)
	}
	if !ok {
		return
	}
	ast.Patch(&bin.Left, toOrderable(bin.Left, converter))
	ast.Patch(&bin.Right, toOrderable(bin.Right, converter))
}

type StreamFilterBlob string

type StreamFilter struct {
	Blob    StreamFilterBlob
	program *vm.Program
}

func (sfb StreamFilterBlob) Parse() (*StreamFilter, error) {
	sf := &StreamFilter{
		Blob: sfb,
	}

	if strings.TrimSpace(string(sfb)) == "" {
		return sf, nil
	}

	program, err := expr.Compile(
		string(sfb),
		expr.Env(&StreamMeta{}),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
		expr.Function("__Resolution__", func(val ...any) (any, error) {
			return Resolution(val[0].(string)), nil
		}, new(func(string) Resolution)),
		expr.Function("__Quality__", func(val ...any) (any, error) {
			return Quality(val[0].(string)), nil
		}, new(func(string) Quality)),
		expr.Function("__Size__", func(val ...any) (any, error) {
			return Size(val[0].(string)), nil
		}, new(func(string) Size)),
		expr.Patch(ValuePatcher{}),
	)
	if err != nil {
		return sf, err
	}

	sf.program = program
	return sf, nil
}

// Match keeps r when there is no filter or the expression fails at runtime.
func (sf *StreamFilter) Match(r *StreamMeta) bool {
	if sf == nil || sf.program == nil || r == nil {
		return true
	}
	if r.Result == nil {
		r.Result = &ptt.Result{}
	}

	output, err := expr.Run(sf.program, r)
	if err != nil {
		return true
	}

	return output.(bool)
}
