// Package domain models USGS earthquake feed data and the pure computations
// run over it.
//
// # Data Source
//
// Events come from the USGS real-time GeoJSON summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson.
// The "all_day" feed is a rolling 24 hour window regenerated every minute;
// the service re-reads it every five minutes and replaces its snapshot.
//
// # USGS Feed Conventions
//
// Coordinates:
//
//	geometry.coordinates = [longitude, latitude, depth]
//	Longitude/latitude are WGS84 decimal degrees, depth is kilometers
//	(positive down, small negative values occur for events above sea level).
//
// Properties used:
//
//	mag      float, may be null for events still being reviewed
//	place    free text, e.g. "10 km SSW of Tonga"; may be null
//	time     epoch milliseconds (UTC)
//	sig      0..1000 significance score combining magnitude, felt reports and impact
//	tsunami  1 when the event is in a region with a tsunami warning product, else 0
//
// Features without an id, magnitude, time or full coordinate triple are
// dropped at the ingestion boundary by [ParseFeature]; nothing malformed
// propagates past it.
//
// # Classification
//
// Magnitude classes follow the usual map legend:
//
//	M0–M2.9 minor | M3–M4.9 light | M5+ major
//
// Significance levels: sig ≥ 600 high, ≥ 300 moderate, else low.
// Activity levels over the last hour: ≥ 10 events high, ≥ 5 moderate, else low.
//
// # Time
//
// Nothing in this package reads the wall clock. [Apply] and [Summarize] take
// the evaluation time explicitly so results are deterministic.
package domain
