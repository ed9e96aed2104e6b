// Package validation checks flat string records against pipe-separated rule
// strings.
//
//	v := validation.Make(map[string]string{
//	    "name": "mailer",
//	    "type": "factory",
//	}, validation.Rules{
//	    "name": "required|max:255",
//	    "type": "required|in:class,factory,abstract_factory,alias",
//	})
//
//	if v.Fails() {
//	    fmt.Println(v.Errors().String())
//	}
//
// # Available Rules
//
//   - required   — field must be present and non-blank
//   - integer    — parses as an int
//   - boolean    — parses with strconv.ParseBool
//   - min:n      — at least n UTF-8 characters
//   - max:n      — at most n UTF-8 characters
//   - in:a,b     — one of the listed values
//   - not_in:a,b — none of the listed values
//   - alpha_dash — letters, digits, dashes and underscores
//   - regex:expr — matches the expression
//   - sometimes  — skip the remaining rules when empty
//
// Rules bail on the first failure per field.
package validation
