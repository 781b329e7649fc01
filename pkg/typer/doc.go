// Package typer builds validators for untyped data such as decoded JSON.
//
// A Validator reports failure by returning a *ValidationError; it never
// panics and never mutates its input. Validators compose:
//
//	user := typer.Object(
//		typer.Field("name", typer.String()),
//		typer.Field("role", typer.Enum("admin", "member")),
//		typer.Field("tags", typer.Optional(typer.Array(typer.String()))),
//	)
//	if err := user(doc); err != nil {
//		// err is a *ValidationError whose Path names the failing field.
//	}
//
// WithTyper adapts a Validator to the predicate shape used by package see.
package typer
