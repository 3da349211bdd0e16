// Package harness runs YAML conformance scenarios against the sandhi
// processor and the grammar engine.
//
// # Scenario Format
//
//	name: vowel_sandhi
//	description: "Registered vowel rules join and split"
//	rules: ../rules/default     # optional CUE rule directory
//	steps:
//	  - op: apply
//	    args: [rama, iva]
//	    expect: rameva
//	  - op: reverse
//	    input: rameva
//	    expect: [rame, va]
//	  - op: validate
//	    input: "rāmaḥ vanam gacchati"
//	    expect: true
//	assertions:
//	  - type: round_trip
//	    args: [deva, atra]
//	  - type: correct_idempotent
//	    input: "gacchati rāma vanam"
//
// # Step Operations
//
//   - apply: args [first, second], output string
//   - reverse: input, output list of segments
//   - splits: input, output list of {position, candidates}
//   - validate: input, output bool
//   - correct: input, output string
//   - parse: input, output list of word tags such as "verb(present,plural)"
//   - inflect: args [stem, gender, case], output string ("" if no rule applies)
//   - conjugate: args [root, tense, person-number], output string
//
// A step without expect is only recorded. Expected and actual outputs are
// compared as canonical JSON, so precomposed and decomposed IAST match.
//
// # Assertion Types
//
//   - round_trip: joining args [first, second] must be undone by Reverse or
//     listed by IdentifySplits
//   - correct_idempotent: Correct(Correct(input)) == Correct(input)
//   - word_count: ParseSentence(input) has one analysis per word
//
// # Deterministic Testing
//
// Every step is numbered by testutil.StepCounter, so the same
// scenario always produces the same trace. RunWithGolden compares that
// trace against testdata/scenarios/golden/<name>.golden with goldie.
package harness
