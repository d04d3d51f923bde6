// Package engine drives reasoning runs: it drains pending axioms from an
// axiom store, applies the normalize/simplify rewrite dispatch, routes
// fundamental atoms to model commits, handles the logical connectives
// (conjunctions are transparent, disjunctions fork branch states with
// cloned models and recombine by intersection), and reports a terminal
// verdict.
//
// A single run is sequential and owns its model exclusively. Disjunction
// branches are independent by construction: each starts from a deep model
// clone and only shares the immutable axiom and entity definitions. The
// engine evaluates branches sequentially; the recombination step would be
// equally correct after parallel branch evaluation, since no branch ever
// touches another's model.
package engine
