// Package rules holds the style rule evaluators and the table that maps each
// rule to the node kinds it inspects.
//
// Evaluators are pure: they read the tree, the TypeIndex and the acronym
// dictionary and report through Context.Report. Walk runs every evaluator
// registered for a node's kind and isolates panics per node and rule, so a
// broken evaluator costs one finding, never the file.
package rules
