// Package selector provides the default realization selector.
//
// The routing chooser treats the selector as an external collaborator: it
// hands over a bound query context and the eligible realizations, and the
// selector either picks one or declines the model. This package's
// implementation ranks purely by cost; engines with execution-cost
// estimates plug in their own routing.Selector instead.
package selector
