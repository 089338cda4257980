// Package dispatch sends outbound SMS and email messages through
// trigger-based automation rules.
//
// A business trigger (booking created, payment received, ...) resolves
// through the enabled rules to templates, which render against booking
// and customer fields into one message per configured channel. Sending
// is failure-isolated: a transport error is captured in that item's
// result and never aborts siblings or the call. Bulk sends run in
// fixed-size batches with an inter-batch delay to respect provider rate
// limits, and check cancellation between batches only.
package dispatch
