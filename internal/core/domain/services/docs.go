// Package services provides the stateless domain services of fulfillment that
// do not belong to a single aggregate.
//
// The package includes:
//   - cost functions: ScoredCost (distance and workload) and LeastLoadedCost (workload only)
//   - AgentSelector: picks the cheapest eligible agent for a pickup point
//   - WindowResolver: decides whether an apartment's ordering window is open
//
// None of these services touch storage; the application layer loads the
// aggregates, asks the services for a decision and persists the result.
package services
