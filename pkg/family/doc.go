// Package family defines the input model for genograms: people, marriages
// and the diagnostics produced while interpreting them.
//
// # Canonical Shape
//
// A [Family] lists its people and an explicit set of [Marriage] entries. A
// person's Mother and Father keys are optional; when both are set and the
// two are married, the builder attaches the person as a child of that
// marriage even if the marriage does not list the child.
//
//	{
//	  "name": "Smith",
//	  "people": [
//	    {"key": 1, "sex": "M", "name": "Adam"},
//	    {"key": 2, "sex": "F", "name": "Eve"},
//	    {"key": 3, "sex": "M", "name": "Cain", "mother": 2, "father": 1}
//	  ],
//	  "marriages": [{"one": 1, "two": 2}]
//	}
//
// # Legacy Shapes
//
// [ReadLegacyJSON] accepts the loosely typed documents older tools emit:
// short field names (n, s, m, f, a), gender/mom/dad aliases, and per-person
// partner fields (partner, wife, husband, ux, vir) that are converted into
// marriages. [ReadJSON] detects these automatically.
//
// # Validation
//
// [Family.Validate] rejects records the layout cannot work with: a zero key,
// a missing sex or a duplicated key. Everything else, such as a marriage to
// an unknown person, is tolerated and reported as a [Diagnostic].
package family
