// Package pipeline drives the fetch, parse, accumulate and write loop.
//
// The loop is sequential. Page 0 is fetched first and each following page is
// requested only while the previous one asks to continue:
//
//	Running -> StoppedNormally   (range boundary, empty page or page limit)
//	Running -> StoppedOnError    (fetch or parse failure)
//
// Both final states write whatever was collected. Only a failure to write the
// output is reported as an error by Run.
package pipeline
