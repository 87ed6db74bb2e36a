package ast

// Walk traverses an AST depth-first and calls fn for each node.
// If fn returns false, the children of that node are skipped.
//
// Walk visits every child, including non-computed property keys and member
// property names; callers that care about references must check the parent.
func Walk(node Node, fn func(node Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	walkNode(node, fn)
}

func walkExprs(list []Expr, fn func(Node) bool) {
	for _, e := range list {
		if e != nil {
			Walk(e, fn)
		}
	}
}

func walkStmts(list []Stmt, fn func(Node) bool) {
	for _, s := range list {
		if s != nil {
			Walk(s, fn)
		}
	}
}

// walkOpt walks an optional child, skipping nil interfaces and typed nil
// pointers stored in concrete fields.
func walkOpt(n Node, fn func(Node) bool) {
	if n == nil || isNilNode(n) {
		return
	}
	Walk(n, fn)
}

func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *BlockStmt:
		return v == nil
	case *Ident:
		return v == nil
	case *Literal:
		return v == nil
	case *Function:
		return v == nil
	case *CatchClause:
		return v == nil
	case *VarDecl:
		return v == nil
	}
	return false
}

func walkNode(node Node, fn func(Node) bool) {
	switch n := node.(type) {
	case *Program:
		walkStmts(n.Body, fn)

	case *VarDecl:
		for _, d := range n.Decls {
			Walk(d, fn)
		}

	case *Declarator:
		walkOpt(n.Target, fn)
		walkOpt(n.Init, fn)

	case *Function:
		walkOpt(n.Name, fn)
		walkExprs(n.Params, fn)
		walkOpt(n.Body, fn)

	case *FuncDecl:
		walkOpt(n.Func, fn)

	case *ExprStmt:
		walkOpt(n.X, fn)

	case *BlockStmt:
		walkStmts(n.List, fn)

	case *LabeledStmt:
		walkOpt(n.Label, fn)
		walkOpt(n.Body, fn)

	case *ReturnStmt:
		walkOpt(n.Result, fn)

	case *IfStmt:
		walkOpt(n.Cond, fn)
		walkOpt(n.Then, fn)
		walkOpt(n.Else, fn)

	case *ForStmt:
		walkOpt(n.Init, fn)
		walkOpt(n.Cond, fn)
		walkOpt(n.Post, fn)
		walkOpt(n.Body, fn)

	case *ForInStmt:
		walkOpt(n.Left, fn)
		walkOpt(n.Right, fn)
		walkOpt(n.Body, fn)

	case *WhileStmt:
		walkOpt(n.Cond, fn)
		walkOpt(n.Body, fn)

	case *DoWhileStmt:
		walkOpt(n.Body, fn)
		walkOpt(n.Cond, fn)

	case *BranchStmt:
		walkOpt(n.Label, fn)

	case *ThrowStmt:
		walkOpt(n.X, fn)

	case *TryStmt:
		walkOpt(n.Block, fn)
		walkOpt(n.Handler, fn)
		walkOpt(n.Finalizer, fn)

	case *CatchClause:
		walkOpt(n.Param, fn)
		walkOpt(n.Body, fn)

	case *SwitchStmt:
		walkOpt(n.Disc, fn)
		for _, c := range n.Cases {
			Walk(c, fn)
		}

	case *CaseClause:
		walkOpt(n.Test, fn)
		walkStmts(n.Body, fn)

	case *ImportDecl:
		for _, s := range n.Specs {
			Walk(s, fn)
		}
		walkOpt(n.Source, fn)

	case *ImportSpec:
		walkOpt(n.Imported, fn)
		walkOpt(n.Local, fn)

	case *ExportDecl:
		walkOpt(n.Decl, fn)
		walkOpt(n.Value, fn)
		for _, s := range n.Specs {
			Walk(s, fn)
		}
		walkOpt(n.StarAs, fn)
		walkOpt(n.Source, fn)

	case *ExportSpec:
		walkOpt(n.Local, fn)
		walkOpt(n.Exported, fn)

	case *TemplateLit:
		walkOpt(n.Tag, fn)
		walkExprs(n.Exprs, fn)

	case *ArrayLit:
		walkExprs(n.Elems, fn)

	case *ObjectLit:
		walkExprs(n.Props, fn)

	case *Property:
		walkOpt(n.Key, fn)
		walkOpt(n.Value, fn)

	case *SpreadElem:
		walkOpt(n.X, fn)

	case *FuncExpr:
		walkOpt(n.Func, fn)

	case *ArrowFunc:
		walkExprs(n.Params, fn)
		walkOpt(n.Body, fn)

	case *UnaryExpr:
		walkOpt(n.X, fn)

	case *UpdateExpr:
		walkOpt(n.X, fn)

	case *BinaryExpr:
		walkOpt(n.X, fn)
		walkOpt(n.Y, fn)

	case *AssignExpr:
		walkOpt(n.Left, fn)
		walkOpt(n.Right, fn)

	case *CondExpr:
		walkOpt(n.Cond, fn)
		walkOpt(n.Then, fn)
		walkOpt(n.Else, fn)

	case *CallExpr:
		walkOpt(n.Callee, fn)
		walkExprs(n.Args, fn)

	case *NewExpr:
		walkOpt(n.Callee, fn)
		walkExprs(n.Args, fn)

	case *MemberExpr:
		walkOpt(n.X, fn)
		walkOpt(n.Prop, fn)

	case *SeqExpr:
		walkExprs(n.List, fn)

	case *AwaitExpr:
		walkOpt(n.X, fn)

	case *YieldExpr:
		walkOpt(n.X, fn)

	case *ArrayPattern:
		walkExprs(n.Elems, fn)

	case *ObjectPattern:
		walkExprs(n.Props, fn)

	case *AssignPattern:
		walkOpt(n.Left, fn)
		walkOpt(n.Right, fn)

	case *RestElem:
		walkOpt(n.X, fn)
	}
}
