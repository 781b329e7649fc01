// Package see runs a value through a chain of checks and transforms.
//
// A pipeline is alive until a step fails. The first failure is handed to
// the Maker's ErrorHook, the hook's result is stored, and every later step
// becomes a no-op:
//
//	s := see.New(doc).
//		Check(typer.WithTyper[any](schema)).
//		Check(notEmpty)
//	name := see.Into(s, extractName)
//	if err := name.Err(); err != nil {
//		return err
//	}
//	return name.Raw(), nil
//
// Pipelines are independent and own no shared state. Async steps block the
// calling goroutine until the step settles or its context is done.
package see
