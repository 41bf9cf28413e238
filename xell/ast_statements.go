package xell

type FunctionStmt struct {
	Name       string
	Params     []Param
	Variadic   string
	Body       []Statement
	IsAsync    bool
	Decorators []Expression
	position   Position
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) Pos() Position { return s.position }

type GiveStmt struct {
	Value    Expression
	position Position
}

func (s *GiveStmt) stmtNode()     {}
func (s *GiveStmt) Pos() Position { return s.position }

// AssignStmt covers plain and compound assignment. Operator is tokenAssign
// or one of the compound operators.
type AssignStmt struct {
	Target   Expression
	Operator TokenType
	Value    Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type DestructureStmt struct {
	Targets  []string
	Value    Expression
	position Position
}

func (s *DestructureStmt) stmtNode()     {}
func (s *DestructureStmt) Pos() Position { return s.position }

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition  Expression
	Consequent []Statement
	ElseIf     []*IfStmt
	Alternate  []Statement
	position   Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

// ForStmt binds each element to Vars; more than one var destructures.
type ForStmt struct {
	Vars     []string
	Iterable Expression
	Body     []Statement
	position Position
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      []Statement
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

type BreakStmt struct {
	position Position
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.position }

type ContinueStmt struct {
	position Position
}

func (s *ContinueStmt) stmtNode()     {}
func (s *ContinueStmt) Pos() Position { return s.position }

// BringStmt imports names from another file. All is `bring *`.
type BringStmt struct {
	All      bool
	Names    []string
	Aliases  []string
	Path     string
	position Position
}

func (s *BringStmt) stmtNode()     {}
func (s *BringStmt) Pos() Position { return s.position }

type TryStmt struct {
	Body     []Statement
	CatchVar string
	Catch    []Statement
	HasCatch bool
	Finally  []Statement
	position Position
}

func (s *TryStmt) stmtNode()     {}
func (s *TryStmt) Pos() Position { return s.position }

type InCaseClause struct {
	Values   []Expression
	Body     []Statement
	position Position
}

type InCaseStmt struct {
	Subject  Expression
	Clauses  []InCaseClause
	Else     []Statement
	position Position
}

func (s *InCaseStmt) stmtNode()     {}
func (s *InCaseStmt) Pos() Position { return s.position }

type EnumMember struct {
	Name  string
	Value Expression
}

type EnumStmt struct {
	Name     string
	Members  []EnumMember
	position Position
}

func (s *EnumStmt) stmtNode()     {}
func (s *EnumStmt) Pos() Position { return s.position }
