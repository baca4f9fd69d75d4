// Package predict relays form submissions to a prediction container and
// turns its asynchronous job protocol into one blocking call.
//
// A submission moves through building, submitted, zero or more polling
// rounds, and ends in succeeded or failed. A 201 response carries a polling
// URL under urls.get which is fetched until the job reports succeeded or
// failed; the poll interval, backoff and overall timeout come from
// PollPolicy and the caller's context can cancel at any point.
//
// Every failure surfaces as a single *Error. Use errors.Is against the
// sentinels in this package (or outputs.ErrMalformedResponse and
// outputs.ErrDecode) to tell them apart.
package predict
