// Package kind classifies arbitrary Go values more precisely than
// reflect.Kind. Every value maps to one Label from a closed set
// (undefined, null, boolean, number, string, bigint, symbol, function,
// class, object, array), and the array label is refined by iteration
// capability (sync, async) and by representation (literal slices versus
// extended containers such as fixed-size arrays and channels).
//
// The predicates are total: they accept any value, never panic, and never
// allocate beyond what reflection needs.
//
// Class detection is declarative. A value is a class only if it implements
// Constructor; there is no heuristic on func values.
package kind
