package model

import internalmodel "github.com/goliatone/go-tlgen/internal/model"

// RefKind re-exports the internal type-reference discriminator.
type RefKind = internalmodel.RefKind

const (
	RefPrimitive   = internalmodel.RefPrimitive
	RefVector      = internalmodel.RefVector
	RefConstructor = internalmodel.RefConstructor
	RefBase        = internalmodel.RefBase
	RefGeneric     = internalmodel.RefGeneric
)

// Primitive re-exports the internal primitive enumeration.
type Primitive = internalmodel.Primitive

const (
	PrimitiveInt    = internalmodel.PrimitiveInt
	PrimitiveLong   = internalmodel.PrimitiveLong
	PrimitiveInt128 = internalmodel.PrimitiveInt128
	PrimitiveInt256 = internalmodel.PrimitiveInt256
	PrimitiveDouble = internalmodel.PrimitiveDouble
	PrimitiveBool   = internalmodel.PrimitiveBool
	PrimitiveString = internalmodel.PrimitiveString
	PrimitiveBytes  = internalmodel.PrimitiveBytes
	PrimitiveFlags  = internalmodel.PrimitiveFlags
	PrimitiveTrue   = internalmodel.PrimitiveTrue
)

type TypeRef = internalmodel.TypeRef
type Field = internalmodel.Field
type Constructor = internalmodel.Constructor
type BaseType = internalmodel.BaseType
type Schema = internalmodel.Schema

type UnknownTypeReferenceError = internalmodel.UnknownTypeReferenceError
type ConditionReferenceError = internalmodel.ConditionReferenceError
