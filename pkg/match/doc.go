/*
Package match implements criteria matching for reconciliation decisions.

Two pure operations over criteria records:

  - SubsetMatch: fields present in the comparison operand constrain equality,
    absent fields are wildcards. Used to decide which existing criteria a
    removal row targets.
  - Duplicate: bidirectional subset match against a list, detecting records
    that are field-for-field identical. Used to keep appends idempotent.

Both functions are side-effect free and operate on values, so the reconciler
can compute a full diff before touching the network.
*/
package match
