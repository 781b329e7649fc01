// Array predicates. Every shape predicate has an emptiness sibling that
// additionally requires a zero length.

package kind

type scope int

const (
	scopeAny scope = iota
	scopeSync
	scopeAsync
)

type variant int

const (
	variantAny variant = iota
	variantLiteral
	variantExtended
)

func (f facts) isArray(s scope, vr variant) bool {
	var ok bool
	switch s {
	case scopeSync:
		ok = f.sync
	case scopeAsync:
		ok = f.async
	default:
		ok = f.sync || f.async
	}
	if !ok {
		return false
	}
	switch vr {
	case variantLiteral:
		return f.literal
	case variantExtended:
		return !f.literal
	}
	return true
}

func (f facts) isEmptyArray(s scope, vr variant) bool {
	return f.isArray(s, vr) && f.length == 0
}

// IsArray reports whether v can be iterated synchronously or asynchronously.
// Strings and nullish values are never arrays.
func IsArray(v any) bool { return inspect(v).isArray(scopeAny, variantAny) }

// IsSyncArray reports whether v can be iterated synchronously.
func IsSyncArray(v any) bool { return inspect(v).isArray(scopeSync, variantAny) }

// IsAsyncArray reports whether v delivers its elements over a channel.
func IsAsyncArray(v any) bool { return inspect(v).isArray(scopeAsync, variantAny) }

// IsLiteralArray reports whether v is an array backed by a slice.
func IsLiteralArray(v any) bool { return inspect(v).isArray(scopeAny, variantLiteral) }

// IsExtendedArray reports whether v is an array not backed by a slice, such
// as [8]byte, a channel, or a custom Iterable.
func IsExtendedArray(v any) bool { return inspect(v).isArray(scopeAny, variantExtended) }

func IsSyncLiteralArray(v any) bool { return inspect(v).isArray(scopeSync, variantLiteral) }

func IsSyncExtendedArray(v any) bool { return inspect(v).isArray(scopeSync, variantExtended) }

func IsAsyncLiteralArray(v any) bool { return inspect(v).isArray(scopeAsync, variantLiteral) }

func IsAsyncExtendedArray(v any) bool { return inspect(v).isArray(scopeAsync, variantExtended) }

// IsEmptyArray reports whether v is an array of length zero. A nil slice is
// an empty array.
func IsEmptyArray(v any) bool { return inspect(v).isEmptyArray(scopeAny, variantAny) }

func IsEmptySyncArray(v any) bool { return inspect(v).isEmptyArray(scopeSync, variantAny) }

func IsEmptyAsyncArray(v any) bool { return inspect(v).isEmptyArray(scopeAsync, variantAny) }

func IsEmptyLiteralArray(v any) bool { return inspect(v).isEmptyArray(scopeAny, variantLiteral) }

func IsEmptyExtendedArray(v any) bool { return inspect(v).isEmptyArray(scopeAny, variantExtended) }

func IsEmptySyncLiteralArray(v any) bool { return inspect(v).isEmptyArray(scopeSync, variantLiteral) }

func IsEmptySyncExtendedArray(v any) bool {
	return inspect(v).isEmptyArray(scopeSync, variantExtended)
}

func IsEmptyAsyncLiteralArray(v any) bool {
	return inspect(v).isEmptyArray(scopeAsync, variantLiteral)
}

func IsEmptyAsyncExtendedArray(v any) bool {
	return inspect(v).isEmptyArray(scopeAsync, variantExtended)
}
