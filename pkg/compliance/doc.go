// Package compliance aggregates the decision log into control-family
// evidence for governance reporting.
//
// The aggregator is stateless over its inputs: a summary is a pure function
// of the decisions in the requested window and can be recomputed at any time
// from the immutable decision log. Summaries map decisions onto an ISO/IEC
// 42001-style control catalog, count enforcement actions per risk category
// and compute an overall compliance rate.
package compliance
