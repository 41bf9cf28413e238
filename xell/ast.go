package xell

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is the parsed form of one source file.
type Program struct {
	Statements []Statement
	Source     string
	Path       string
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

type Param struct {
	Name       string
	DefaultVal Expression
}

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

type IntegerLiteral struct {
	Value    int64
	position Position
}

func (e *IntegerLiteral) exprNode()     {}
func (e *IntegerLiteral) Pos() Position { return e.position }

type FloatLiteral struct {
	Value    float64
	position Position
}

func (e *FloatLiteral) exprNode()     {}
func (e *FloatLiteral) Pos() Position { return e.position }

type ImaginaryLiteral struct {
	Value    float64
	position Position
}

func (e *ImaginaryLiteral) exprNode()     {}
func (e *ImaginaryLiteral) Pos() Position { return e.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

// InterpolatedString concatenates the string form of each part.
type InterpolatedString struct {
	Parts    []Expression
	position Position
}

func (e *InterpolatedString) exprNode()     {}
func (e *InterpolatedString) Pos() Position { return e.position }

type BytesLiteral struct {
	Value    []byte
	position Position
}

func (e *BytesLiteral) exprNode()     {}
func (e *BytesLiteral) Pos() Position { return e.position }

type BoolLiteral struct {
	Value    bool
	position Position
}

func (e *BoolLiteral) exprNode()     {}
func (e *BoolLiteral) Pos() Position { return e.position }

type NoneLiteral struct {
	position Position
}

func (e *NoneLiteral) exprNode()     {}
func (e *NoneLiteral) Pos() Position { return e.position }

type ListLiteral struct {
	Elements []Expression
	position Position
}

func (e *ListLiteral) exprNode()     {}
func (e *ListLiteral) Pos() Position { return e.position }

type TupleLiteral struct {
	Elements []Expression
	position Position
}

func (e *TupleLiteral) exprNode()     {}
func (e *TupleLiteral) Pos() Position { return e.position }

type SetLiteral struct {
	Elements []Expression
	Frozen   bool
	position Position
}

func (e *SetLiteral) exprNode()     {}
func (e *SetLiteral) Pos() Position { return e.position }

type MapLiteralEntry struct {
	Key   Expression
	Value Expression
}

// MapLiteral entries with a nil Key and a SpreadExpr value merge another map.
type MapLiteral struct {
	Entries  []MapLiteralEntry
	position Position
}

func (e *MapLiteral) exprNode()     {}
func (e *MapLiteral) Pos() Position { return e.position }

type SpreadExpr struct {
	Value    Expression
	position Position
}

func (e *SpreadExpr) exprNode()     {}
func (e *SpreadExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator TokenType
	Right    Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	// Negated marks `not in`.
	Negated  bool
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

// IncDecExpr is ++/-- applied to an identifier.
type IncDecExpr struct {
	Target   *Identifier
	Operator TokenType
	Prefix   bool
	position Position
}

func (e *IncDecExpr) exprNode()     {}
func (e *IncDecExpr) Pos() Position { return e.position }

type CallExpr struct {
	Callee   Expression
	Args     []Expression
	position Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

type IndexExpr struct {
	Object   Expression
	Index    Expression
	position Position
}

func (e *IndexExpr) exprNode()     {}
func (e *IndexExpr) Pos() Position { return e.position }

type MemberExpr struct {
	Object   Expression
	Property string
	position Position
}

func (e *MemberExpr) exprNode()     {}
func (e *MemberExpr) Pos() Position { return e.position }

type TernaryExpr struct {
	Condition Expression
	Then      Expression
	Else      Expression
	position  Position
}

func (e *TernaryExpr) exprNode()     {}
func (e *TernaryExpr) Pos() Position { return e.position }

// LambdaExpr has either a Body block or a single Expr.
type LambdaExpr struct {
	Params   []Param
	Variadic string
	Body     []Statement
	Expr     Expression
	position Position
}

func (e *LambdaExpr) exprNode()     {}
func (e *LambdaExpr) Pos() Position { return e.position }

type YieldExpr struct {
	Value    Expression
	position Position
}

func (e *YieldExpr) exprNode()     {}
func (e *YieldExpr) Pos() Position { return e.position }

type AwaitExpr struct {
	Value    Expression
	position Position
}

func (e *AwaitExpr) exprNode()     {}
func (e *AwaitExpr) Pos() Position { return e.position }
