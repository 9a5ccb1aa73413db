/*
Package errors implements custom error interfaces.

The idea behind this package is to provide a set of root errors that any other
error can be matched against. Errors are categorized, not concrete. When
creating a new error instance always wrap one of the root error instances
declared here, or register a new root error with a unique code.

Use Is method of a root error to test if an error belongs to its category:

	if errors.ErrNotFound.Is(err) {
		// ...
	}

Matching is done by unwrapping the tested error through the Cause method, so
any number of Wrap layers does not affect the result.
*/
package errors
