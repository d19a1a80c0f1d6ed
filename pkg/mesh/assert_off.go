//go:build polymesh_release

package mesh

// Release builds drop contract checks; violating a precondition is undefined
// behavior. Use the Can* predicates when inputs are untrusted.
const assertionsEnabled = false
