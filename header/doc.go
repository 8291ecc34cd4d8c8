// Package header implements typed HTTP header values.
//
// Every value type comes with a ParseX function returning an error that wraps
// [ErrMalformedInput] or [ErrEmptyInput], and a TryParseX variant
// reporting failure with a boolean. Values render back into their canonical wire
// form with String and compare structurally with Equal, Hash is consistent with Equal.
//
// Multi-value headers are parsed with TryParseXList functions that accept
// comma separated lists and skip empty elements.
//
// Values are not safe for concurrent mutation.
package header
