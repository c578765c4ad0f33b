// Package geo provides geospatial primitives for the dispatch core: validated
// latitude/longitude points, great-circle distance, hub reference data with
// nearest-hub selection, and tier-based delivery-time sampling.
//
// All functions are pure and deterministic except SampleDeliveryMinutes, which
// draws a pseudo-random estimate once per delivery; the sampled value is
// persisted on the delivery record and never re-sampled.
package geo
