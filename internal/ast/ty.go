package ast

// Primitive enumerates PRQL's scalar primitive types (spec.md §3.4).
type Primitive int

const (
	PInt Primitive = iota
	PFloat
	PBool
	PText
	PDate
	PTime
	PTimestamp
)

var primitiveNames = map[Primitive]string{
	PInt: "int", PFloat: "float", PBool: "bool", PText: "text",
	PDate: "date", PTime: "time", PTimestamp: "timestamp",
}

func (p Primitive) String() string { return primitiveNames[p] }

// TyKind discriminates the surface-AST type-expression shapes (spec.md
// §3.4 "Ty").
type TyKind int

const (
	TIdent TyKind = iota
	TPrimitive
	TSingleton
	TUnion
	TTuple
	TArray
	TFunction
	TAny
	TDifference
)

// TyUnionVariant is one arm of a Union type, optionally named.
type TyUnionVariant struct {
	Name *string
	Ty   Ty
}

// TyTupleField is one field of a Tuple type. Wildcard fields (`..`) carry
// Wildcard=true and no Name/Ty; per spec.md §9 Open Question (a), a
// wildcard tuple field denotes "other, unnamed columns" in PL, not "every
// column" (that meaning is reserved for RQ's RelationColumn.Wildcard).
type TyTupleField struct {
	Wildcard bool
	Name     string
	Ty       Ty
}

type Ty struct {
	Kind TyKind

	Ident     Ident
	Primitive Primitive
	Singleton Literal

	Union []TyUnionVariant

	Tuple []TyTupleField

	Array *Ty

	FuncArgs     []*Ty
	FuncReturnTy *Ty

	DiffBase    *Ty
	DiffExclude *Ty

	// GenericName is set when this Ty is actually a reference to a generic
	// type parameter declared on the enclosing function (spec.md §4.4.3).
	GenericName string
}

func AnyTy() Ty                    { return Ty{Kind: TAny} }
func PrimitiveTy(p Primitive) Ty    { return Ty{Kind: TPrimitive, Primitive: p} }
func IdentTy(id Ident) Ty           { return Ty{Kind: TIdent, Ident: id} }
