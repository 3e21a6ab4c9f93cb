package resolver

import (
	"fmt"
	"strconv"

	"github.com/prqlc-go/prqlc/internal/ast"
)

// IsSuperTypeOf implements spec.md §4.4.3's structural subtyping rules:
// Any accepts everything; a primitive matches only the same primitive; a
// union matches if any of its variants does; a tuple matches when every
// named field of super has a compatible field in sub (sub may carry
// extra fields, mirroring PRQL's "open" relation typing); an array
// matches covariantly on its element type; a function matches
// contravariantly on its arguments and covariantly on its return type.
//
// Ident-referenced types (TIdent) are compared by declaration identity in
// the original implementation; this module does not thread a separate
// type-declaration table through here, so they fall back to a structural
// kind check -- the one deliberate gap in this function, called out here
// rather than silently mishandled.
func IsSuperTypeOf(super, sub ast.Ty) bool {
	if super.Kind == ast.TAny {
		return true
	}
	switch super.Kind {
	case ast.TPrimitive:
		return sub.Kind == ast.TPrimitive && sub.Primitive == super.Primitive
	case ast.TUnion:
		for _, v := range super.Union {
			if IsSuperTypeOf(v.Ty, sub) {
				return true
			}
		}
		return false
	case ast.TTuple:
		if sub.Kind != ast.TTuple {
			return false
		}
		subByName := make(map[string]ast.Ty, len(sub.Tuple))
		for _, f := range sub.Tuple {
			if !f.Wildcard {
				subByName[f.Name] = f.Ty
			}
		}
		for _, f := range super.Tuple {
			if f.Wildcard {
				continue
			}
			sf, ok := subByName[f.Name]
			if !ok || !IsSuperTypeOf(f.Ty, sf) {
				return false
			}
		}
		return true
	case ast.TArray:
		if sub.Kind != ast.TArray || sub.Array == nil || super.Array == nil {
			return false
		}
		return IsSuperTypeOf(*super.Array, *sub.Array)
	case ast.TFunction:
		if sub.Kind != ast.TFunction || len(super.FuncArgs) != len(sub.FuncArgs) {
			return false
		}
		for i := range super.FuncArgs {
			if super.FuncArgs[i] == nil || sub.FuncArgs[i] == nil {
				continue
			}
			if !IsSuperTypeOf(*sub.FuncArgs[i], *super.FuncArgs[i]) { // contravariant
				return false
			}
		}
		if super.FuncReturnTy != nil && sub.FuncReturnTy != nil {
			return IsSuperTypeOf(*super.FuncReturnTy, *sub.FuncReturnTy) // covariant
		}
		return true
	default:
		return super.Kind == sub.Kind
	}
}

func tyString(ty ast.Ty) string {
	switch ty.Kind {
	case ast.TAny:
		return "Any"
	case ast.TPrimitive:
		return ty.Primitive.String()
	case ast.TIdent:
		return ty.Ident.String()
	case ast.TTuple:
		return "a tuple"
	case ast.TArray:
		return "an array"
	case ast.TFunction:
		return "a function"
	default:
		return "a type"
	}
}

func literalText(lit ast.Literal) string {
	switch lit.Kind {
	case ast.LInteger:
		return fmt.Sprintf("%d", lit.Int)
	case ast.LFloat:
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case ast.LBoolean:
		if lit.Bool {
			return "true"
		}
		return "false"
	case ast.LNull:
		return "null"
	default:
		return lit.Text
	}
}

func litTy(lit ast.Literal) *ast.Ty {
	var t ast.Ty
	switch lit.Kind {
	case ast.LInteger:
		t = ast.PrimitiveTy(ast.PInt)
	case ast.LFloat:
		t = ast.PrimitiveTy(ast.PFloat)
	case ast.LBoolean:
		t = ast.PrimitiveTy(ast.PBool)
	case ast.LString, ast.LRawString:
		t = ast.PrimitiveTy(ast.PText)
	case ast.LDate:
		t = ast.PrimitiveTy(ast.PDate)
	case ast.LTime:
		t = ast.PrimitiveTy(ast.PTime)
	case ast.LTimestamp:
		t = ast.PrimitiveTy(ast.PTimestamp)
	default:
		t = ast.AnyTy()
	}
	return &t
}
