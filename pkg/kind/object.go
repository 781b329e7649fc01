package kind

// IsNullish reports whether v is undefined (untyped nil) or null (a typed
// nil reference or Nil).
func IsNullish(v any) bool {
	l := Of(v)
	return l == LabelUndefined || l == LabelNull
}

// IsUndefined reports whether v is an untyped nil.
func IsUndefined(v any) bool {
	return v == nil
}

// IsNull reports whether v is a typed nil reference or Nil.
func IsNull(v any) bool {
	return Of(v) == LabelNull
}

// IsObject reports whether v is a non-null value that is not iterable,
// callable, or primitive: a struct, a map, or a pointer to one.
func IsObject(v any) bool {
	return Of(v) == LabelObject
}

// IsEmptyObject reports whether v is an object with no keys. Struct keys are
// exported fields.
func IsEmptyObject(v any) bool {
	f := inspect(v)
	return f.label == LabelObject && f.keys == 0
}

// IsEmptyString reports whether v is a string of length zero.
func IsEmptyString(v any) bool {
	f := inspect(v)
	return f.label == LabelString && f.length == 0
}

// IsObjectEmpty reports whether v is an empty string, an empty array, or an
// empty object. It is broader than IsEmptyObject.
func IsObjectEmpty(v any) bool {
	f := inspect(v)
	switch f.label {
	case LabelString:
		return f.length == 0
	case LabelArray:
		return f.length == 0
	case LabelObject:
		return f.keys == 0
	}
	return false
}

// IsFunction reports whether v is a non-nil func that is not a class.
func IsFunction(v any) bool {
	return Of(v) == LabelFunction
}

// IsClass reports whether v implements Constructor.
func IsClass(v any) bool {
	return Of(v) == LabelClass
}
